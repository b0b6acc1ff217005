package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ipv4", input: "192.168.1.47", want: "192.168.1.0"},
		{name: "ipv4 localhost", input: "127.0.0.1", want: "127.0.0.0"},
		{name: "ipv6", input: "2001:db8:85a3::8a2e:370:7334", want: "2001:0db8:85a3::"},
		{name: "empty", input: "", want: "unknown"},
		{name: "garbage", input: "not-an-ip", want: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeIP(tt.input))
		})
	}
}

func TestMaskMobile(t *testing.T) {
	assert.Equal(t, "********90", MaskMobile("1234567890"))
	assert.Equal(t, "**", MaskMobile("12"))
	assert.Equal(t, "", MaskMobile(""))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@shop.in", MaskEmail("asha@shop.in"))
	assert.Equal(t, "a@b", MaskEmail("a@b"), "single-char local part has nothing left to hide")
	assert.Equal(t, "*********", MaskEmail("no-at-all"))
	assert.Equal(t, "", MaskEmail(""))
}
