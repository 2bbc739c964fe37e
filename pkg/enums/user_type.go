package enums

import "fmt"

// UserType distinguishes shoppers from restaurant accounts.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeMerchant UserType = "merchant"
)

var validUserTypes = []UserType{
	UserTypeCustomer,
	UserTypeMerchant,
}

// String implements fmt.Stringer.
func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserType.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserType converts raw input into a UserType. Empty input selects the
// customer type.
func ParseUserType(value string) (UserType, error) {
	if value == "" {
		return UserTypeCustomer, nil
	}
	for _, candidate := range validUserTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
