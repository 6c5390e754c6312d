// Package presenter maps a confirmation flow state to the screen shown to the
// user. It holds no state of its own.
package presenter

import "github.com/juancollazo-ch/order-confirmation-service/internal/models"

type Screen string

const (
	ScreenStatus          Screen = "status"
	ScreenConnectionDelay Screen = "connection_delay"
)

type Icon string

const (
	IconSpinner Icon = "spinner"
	IconCheck   Icon = "check"
	IconCross   Icon = "cross"
	IconWarning Icon = "warning"
)

type Tone string

const (
	ToneBlue   Tone = "blue"
	ToneGreen  Tone = "green"
	ToneRed    Tone = "red"
	ToneYellow Tone = "yellow"
)

type ActionKind string

const (
	// ActionRetry reloads the current page, running the flow from scratch.
	ActionRetry ActionKind = "retry"
	// ActionHome navigates to the home route.
	ActionHome ActionKind = "home"
)

type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	Href  string     `json:"href"`
}

// View describes one screen; rendering it is the template's job.
type View struct {
	Screen  Screen        `json:"screen"`
	Status  models.Status `json:"status"`
	Icon    Icon          `json:"icon"`
	Tone    Tone          `json:"tone"`
	Heading string        `json:"heading"`
	Message string        `json:"message"`
	Actions []Action      `json:"actions"`
}

// Links are the targets of the Retry and Home actions.
type Links struct {
	RetryURL string
	HomeURL  string
}

const connectionDelayText = "Your request is taking longer than expected. Please check your internet connection or try again."

// Present maps state to a View. The fallback flag wins over any status.
func Present(state models.FlowState, links Links) View {
	if state.Fallback {
		return View{
			Screen:  ScreenConnectionDelay,
			Status:  state.Status,
			Icon:    IconWarning,
			Tone:    ToneYellow,
			Heading: "Connection Delay",
			Message: connectionDelayText,
			Actions: []Action{
				{Kind: ActionRetry, Label: "Retry", Href: links.RetryURL},
				{Kind: ActionHome, Label: "Home", Href: links.HomeURL},
			},
		}
	}

	v := View{
		Screen:  ScreenStatus,
		Status:  state.Status,
		Message: state.Message,
		Actions: []Action{},
	}

	switch state.Status {
	case models.StatusSuccess:
		v.Icon, v.Tone, v.Heading = IconCheck, ToneGreen, "Order Confirmed"
	case models.StatusRejected:
		v.Icon, v.Tone, v.Heading = IconCross, ToneRed, "Order Rejected"
	case models.StatusError:
		v.Icon, v.Tone, v.Heading = IconWarning, ToneRed, "Processing Failed"
	default:
		v.Icon, v.Tone, v.Heading = IconSpinner, ToneBlue, "Processing"
	}

	if state.Status == models.StatusRejected || state.Status == models.StatusError {
		v.Actions = []Action{
			{Kind: ActionRetry, Label: "Try Again", Href: links.RetryURL},
			{Kind: ActionHome, Label: "Home", Href: links.HomeURL},
		}
	}

	return v
}
