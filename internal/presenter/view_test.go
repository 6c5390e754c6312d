package presenter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/juancollazo-ch/order-confirmation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var links = Links{RetryURL: "/confirm?orderId=1&itemId=2&action=accept", HomeURL: "/"}

func TestPresent_StatusScreens(t *testing.T) {
	tests := []struct {
		status      models.Status
		icon        Icon
		tone        Tone
		heading     string
		wantActions bool
	}{
		{models.StatusProcessing, IconSpinner, ToneBlue, "Processing", false},
		{models.StatusSuccess, IconCheck, ToneGreen, "Order Confirmed", false},
		{models.StatusRejected, IconCross, ToneRed, "Order Rejected", true},
		{models.StatusError, IconWarning, ToneRed, "Processing Failed", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			v := Present(models.FlowState{Status: tt.status, Message: "msg"}, links)

			assert.Equal(t, ScreenStatus, v.Screen)
			assert.Equal(t, tt.icon, v.Icon)
			assert.Equal(t, tt.tone, v.Tone)
			assert.Equal(t, tt.heading, v.Heading)
			assert.Equal(t, "msg", v.Message)

			if tt.wantActions {
				assert.Equal(t, []Action{
					{Kind: ActionRetry, Label: "Try Again", Href: links.RetryURL},
					{Kind: ActionHome, Label: "Home", Href: "/"},
				}, v.Actions)
			} else {
				assert.Empty(t, v.Actions)
			}
		})
	}
}

func TestPresent_FallbackOverridesStatus(t *testing.T) {
	for _, status := range []models.Status{models.StatusProcessing, models.StatusSuccess, models.StatusError} {
		v := Present(models.FlowState{Status: status, Message: models.MessageTimeout, Fallback: true}, links)

		assert.Equal(t, ScreenConnectionDelay, v.Screen)
		assert.Equal(t, "Connection Delay", v.Heading)
		assert.Equal(t, IconWarning, v.Icon)
		assert.Equal(t, ToneYellow, v.Tone)
		assert.Contains(t, v.Message, "taking longer than expected")
		require.Len(t, v.Actions, 2)
		assert.Equal(t, ActionRetry, v.Actions[0].Kind)
		assert.Equal(t, "Retry", v.Actions[0].Label)
		assert.Equal(t, ActionHome, v.Actions[1].Kind)
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	v := Present(models.FlowState{Status: models.StatusRejected, Message: "<b>Out of stock</b>"}, links)
	require.NoError(t, r.Render(&buf, v))

	html := buf.String()
	assert.Contains(t, html, `data-status="rejected"`)
	assert.Contains(t, html, "Order Rejected")
	assert.Contains(t, html, "&lt;b&gt;Out of stock&lt;/b&gt;", "message must be escaped")
	assert.Contains(t, html, `href="/confirm?orderId=1&amp;itemId=2&amp;action=accept"`)
	assert.Contains(t, html, "Try Again")
}

func TestRenderer_RenderProcessingHasNoActions(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Present(models.InitialState(), links)))

	assert.Contains(t, buf.String(), models.MessageProcessing)
	assert.NotContains(t, buf.String(), `class="actions"`)
}

func TestRenderer_RenderHome(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderHome(&buf))
	assert.Contains(t, buf.String(), "Order confirmation")
}

func TestRenderer_RenderJSON(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	v := Present(models.FlowState{Status: models.StatusError, Message: models.MessageTimeout, Fallback: true}, links)
	require.NoError(t, r.RenderJSON(&buf, v))

	var got View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, v, got)
	assert.Contains(t, buf.String(), `"screen":"connection_delay"`)
}
