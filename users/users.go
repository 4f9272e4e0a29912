package users

// User is the authenticated principal. Name holds the verified email
// returned by Google; Credit is the prepaid transcription-minute balance
// topped up through the payment flow.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Credit    int64  `json:"credit"`
	CreatedAt int64  `json:"create_at"`
}
