package models

import (
	"bytes"
	"encoding/json"
)

// FlexString принимает из JSON как строку, так и число, и хранит исходный текст.
// Клиенты присылают tip_amount и cvv в обоих видах.
type FlexString string

// UnmarshalJSON реализует json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// bool, объект и прочее считаем пустым значением
		*f = ""
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// String возвращает исходный текст значения.
func (f FlexString) String() string {
	return string(f)
}
