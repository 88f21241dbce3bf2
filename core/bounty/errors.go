package bounty

// Err is a simple string error helper.
type Err string

func (e Err) Error() string { return string(e) }

// Every guard failure aborts the whole operation with no partial state
// change; callers match these with errors.Is.
var (
	ErrNotFound        = Err("bounty or fulfillment not found")
	ErrUnauthorized    = Err("caller is not permitted to perform this operation")
	ErrWrongStage      = Err("operation not valid in the bounty's current stage")
	ErrPastDeadline    = Err("bounty deadline has passed")
	ErrInvalidDeadline = Err("deadline is not strictly in the future")
	ErrZeroAmount      = Err("amount must be nonzero")
	ErrValueMismatch   = Err("transferred amount does not equal declared amount")
	ErrUnderfunded     = Err("balance is insufficient to cover obligations")
	ErrTransferFailed  = Err("external value transfer did not succeed")
	ErrAlreadyAccepted = Err("fulfillment has already been accepted")
	ErrAlreadyPaid     = Err("fulfillment has already been paid")
	ErrNotAccepted     = Err("fulfillment has not been accepted")
)
