package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactBody(t *testing.T) {
	body := `{"code":200,"data":{"image":"data:image/png;base64,iVBORw0KGgo="}}`
	out := redactBody(body)
	require.NotContains(t, out, "iVBORw0KGgo")
	require.Contains(t, out, "data:image/...(omitted)")

	long := strings.Repeat("a", maxResponseLogSize)
	require.True(t, strings.HasSuffix(redactBody(long), "...(truncated)"))
}
