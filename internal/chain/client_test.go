package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientNoEndpoints(t *testing.T) {
	_, err := NewClient(context.Background(), nil, nil, 3)
	assert.Error(t, err)
}

func TestMaxTries(t *testing.T) {
	tests := []struct {
		name    string
		retries int
		want    uint
	}{
		{name: "default budget", retries: 3, want: 4},
		{name: "no retries still attempts once", retries: 0, want: 1},
		{name: "negative clamps to a single attempt", retries: -1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maxTries(tt.retries))
		})
	}
}
