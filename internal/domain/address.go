package domain

// Address is the shipping address edited during checkout. It starts from the
// profile but is independently editable before submission.
type Address struct {
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

// AddressFromUser pre-populates the checkout address form from the profile.
func AddressFromUser(u *User) Address {
	if u == nil {
		return Address{}
	}
	return Address{
		FullName:     u.FullName,
		Phone:        u.Phone,
		AddressLine1: u.AddressLine1,
		AddressLine2: u.AddressLine2,
		City:         u.City,
		State:        u.State,
		PostalCode:   u.PostalCode,
		Country:      u.Country,
	}
}
