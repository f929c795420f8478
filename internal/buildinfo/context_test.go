package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextGetters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ctx         *Context
		wantVersion string
		wantDate    string
	}{
		{name: "nil context", ctx: nil, wantVersion: UnknownValue, wantDate: UnknownValue},
		{name: "empty fields", ctx: &Context{}, wantVersion: UnknownValue, wantDate: UnknownValue},
		{name: "set", ctx: &Context{Version: "1.2.0", BuildDate: "2026-01-02"}, wantVersion: "1.2.0", wantDate: "2026-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantVersion, tt.ctx.GetVersion())
			assert.Equal(t, tt.wantDate, tt.ctx.GetBuildDate())
		})
	}
}

func TestNewContextKeepsExplicitVersion(t *testing.T) {
	t.Parallel()

	c := NewContext("v0.3.1", "today")
	assert.Equal(t, "v0.3.1", c.GetVersion())
	assert.Equal(t, "yieldcast@v0.3.1", c.Release())

	var _ BuildInfo = c
}
