package domain

// Client is a contact record. Phones is only filled by reads that join
// the phone_numbers table.
type Client struct {
	ID        int64    `db:"client_id"`
	FirstName string   `db:"first_name"`
	Surname   string   `db:"surname"`
	Email     string   `db:"email"`
	Phones    []string `db:"-"`
}

func NewClient(firstName, surname, email string) *Client {
	return &Client{
		FirstName: firstName,
		Surname:   surname,
		Email:     email,
	}
}

type PhoneNumber struct {
	ID       int64  `db:"phone_id"`
	Number   string `db:"phone_number"`
	ClientID int64  `db:"client_id"`
}

// ClientUpdate carries the fields to change on an existing client.
// Nil fields are left untouched.
type ClientUpdate struct {
	FirstName *string
	Surname   *string
	Email     *string
}

func (u ClientUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.Surname == nil && u.Email == nil
}

// ClientSearch holds optional LIKE patterns. Nil criteria match every client.
type ClientSearch struct {
	FirstName   *string
	Surname     *string
	Email       *string
	PhoneNumber *string
}
