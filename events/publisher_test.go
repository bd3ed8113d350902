package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.PublishJSON(context.Background(), KeyRoomsReset, RoomsReset{Count: 3}))
	require.NoError(t, p.Close())
}
