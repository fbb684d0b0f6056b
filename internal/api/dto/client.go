package dto

// CreateClientRequest represents the client creation request
type CreateClientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	Surname   string `json:"surname" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

// UpdateClientRequest carries only the fields to change
type UpdateClientRequest struct {
	FirstName *string `json:"first_name"`
	Surname   *string `json:"surname"`
	Email     *string `json:"email"`
}

// SearchClientsQuery holds the optional LIKE patterns of GET /clients
type SearchClientsQuery struct {
	FirstName   *string `form:"first_name"`
	Surname     *string `form:"surname"`
	Email       *string `form:"email"`
	PhoneNumber *string `form:"phone_number"`
}

// AddPhoneRequest represents a phone number attached to a client
type AddPhoneRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// ClientCreateResponse returns the assigned identifier
type ClientCreateResponse struct {
	ClientID int64 `json:"client_id"`
}

// ClientResponse represents a client with its phone numbers
type ClientResponse struct {
	ClientID  int64    `json:"client_id"`
	FirstName string   `json:"first_name"`
	Surname   string   `json:"surname"`
	Email     string   `json:"email"`
	Phones    []string `json:"phones"`
}

// ClientSearchResponse lists matching client identifiers
type ClientSearchResponse struct {
	ClientIDs []int64 `json:"client_ids"`
}
