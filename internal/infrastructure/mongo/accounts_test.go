package mongoinfra

import (
	"testing"

	"github.com/bloodlink-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestContactIndexes_UniqueAndSparse(t *testing.T) {
	models := contactIndexes(map[domain.Channel]string{
		domain.ChannelEmail:    "email",
		domain.ChannelPhone:    "phone",
		domain.ChannelWhatsApp: "whatsapp",
	})
	require.Len(t, models, 3)

	var fields []string
	for _, m := range models {
		keys := m.Keys.(bson.D)
		require.Len(t, keys, 1)
		fields = append(fields, keys[0].Key)
		require.NotNil(t, m.Options.Unique)
		assert.True(t, *m.Options.Unique)
		require.NotNil(t, m.Options.Sparse)
		assert.True(t, *m.Options.Sparse)
	}
	assert.ElementsMatch(t, []string{"email", "phone", "whatsapp"}, fields)
}
