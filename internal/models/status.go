package models

// Status es la posición de un flujo de confirmación.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusRejected   Status = "rejected"
	StatusError      Status = "error"
)

// IsTerminal indica si el flujo ya salió de processing.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusRejected || s == StatusError
}

func (s Status) String() string {
	return string(s)
}

// Mensajes que ve el usuario.
const (
	MessageProcessing      = "Processing your request..."
	MessageInvalidRequest  = "Invalid request. Missing parameters."
	MessageTimeout         = "Request timed out. Please try again."
	MessageRejectedDefault = "Order update was not successful."
	MessageGenericFailure  = "Error processing request. Please try again."
)

// FlowState es lo que el Presenter recibe: Status y Message cambian juntos,
// Fallback solo lo activa el timeout.
type FlowState struct {
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
}

// InitialState es el estado de un flujo que aún no se resolvió.
func InitialState() FlowState {
	return FlowState{Status: StatusProcessing, Message: MessageProcessing}
}
