package vecino_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	vecino "github.com/vecino-labs/vecino"
)

func TestHasUserUUID(t *testing.T) {
	t.Run("uuid subject", func(t *testing.T) {
		session := &vecino.SessionObject{
			UserID: uuid.NewString(),
		}

		assert.True(t, vecino.HasUserUUID(session))
	})

	t.Run("provider scoped subject", func(t *testing.T) {
		session := &vecino.SessionObject{
			UserID: "gotrue|1234567890",
		}

		assert.False(t, vecino.HasUserUUID(session))
	})

	t.Run("nil session", func(t *testing.T) {
		assert.False(t, vecino.HasUserUUID(nil))
	})
}
