package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AddressDocument is the primary_address JSONB payload of a restaurant.
type AddressDocument struct {
	Address string `json:"address"`
}

// Value marshals the document into JSON for the store.
func (a AddressDocument) Value() (driver.Value, error) {
	return marshalDocument(a)
}

// Scan decodes JSONB into the document.
func (a *AddressDocument) Scan(value interface{}) error {
	if value == nil {
		*a = AddressDocument{}
		return nil
	}
	var doc AddressDocument
	if err := unmarshalDocument("address document", value, &doc); err != nil {
		return err
	}
	*a = doc
	return nil
}

// ContactDocument is the primary_contact JSONB payload of a restaurant.
type ContactDocument struct {
	Name string `json:"name"`
	NIT  string `json:"nit"`
}

func (c ContactDocument) Value() (driver.Value, error) {
	return marshalDocument(c)
}

func (c *ContactDocument) Scan(value interface{}) error {
	if value == nil {
		*c = ContactDocument{}
		return nil
	}
	var doc ContactDocument
	if err := unmarshalDocument("contact document", value, &doc); err != nil {
		return err
	}
	*c = doc
	return nil
}

func marshalDocument(doc any) (driver.Value, error) {
	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

func unmarshalDocument(label string, value interface{}, dst any) error {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("%s: unsupported scan type %T", label, value)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}
