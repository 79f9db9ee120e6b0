// internal/handlers/ws_test.go
package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennynokoo/uno/internal/models"
)

func TestMessageUnmarshalGameMove(t *testing.T) {
	raw := `{"type":"gameMove","move":{"kind":"playCard","cardIndex":3}}`
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	assert.Equal(t, "gameMove", msg.Type)
	require.NotNil(t, msg.Move)
	assert.Equal(t, models.MovePlayCard, msg.Move.Kind)
	assert.Equal(t, 3, msg.Move.CardIndex)
}

func TestMessageUnmarshalRulesUpdate(t *testing.T) {
	raw := `{"type":"updateGameRules","rules":{"jumpInEnabled":true,"startingHandSize":5}}`
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	assert.Equal(t, true, msg.Rules["jumpInEnabled"])
	assert.Equal(t, float64(5), msg.Rules["startingHandSize"], "JSON numbers decode as float64")
}

func TestMessageUnmarshalSharePainMove(t *testing.T) {
	raw := `{"type":"gameMove","move":{"kind":"playSharePain","cardIndex":0,"targetSeat":"player_2"}}`
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	require.NotNil(t, msg.Move)
	assert.Equal(t, models.MoveSharePain, msg.Move.Kind)
	assert.Equal(t, "player_2", msg.Move.TargetSeat)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Player", displayName(""))
	assert.Equal(t, "Player", displayName("   "))
	assert.Equal(t, "Alice", displayName(" Alice "))
	assert.Len(t, displayName("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), 24)
}

func TestExtractCookieToken(t *testing.T) {
	header := "foo=bar; uno_session=abc.def.ghi; other=1"
	assert.Equal(t, "abc.def.ghi", extractCookieToken(header, "uno_session"))
	assert.Equal(t, "", extractCookieToken(header, "missing"))
	assert.Equal(t, "tok", extractCookieToken("uno_session=tok", "uno_session"))
}
