package lexicon

// Intent is one of the fixed help-desk intent codes. The numeric values must
// match the label ids the intent head was trained with, so they are never
// renumbered.
type Intent int

const (
	IntentCategory     Intent = 0
	IntentLogin        Intent = 1
	IntentLogout       Intent = 2
	IntentAdmin        Intent = 3
	IntentRegister     Intent = 4
	IntentVoice        Intent = 5
	IntentOrder        Intent = 6
	IntentRequestBrand Intent = 7
)

// String returns the symbolic name of the intent for logging and metrics.
func (i Intent) String() string {
	switch i {
	case IntentCategory:
		return "CATEGORY"
	case IntentLogin:
		return "LOGIN"
	case IntentLogout:
		return "LOGOUT"
	case IntentAdmin:
		return "ADMIN"
	case IntentRegister:
		return "REGISTER"
	case IntentVoice:
		return "VOICE"
	case IntentOrder:
		return "ORDER"
	case IntentRequestBrand:
		return "REQUEST_BRAND"
	}
	return "UNKNOWN"
}

// IsValid reports whether i is one of the eight known intent codes.
func (i Intent) IsValid() bool {
	return i >= IntentCategory && i <= IntentRequestBrand
}
