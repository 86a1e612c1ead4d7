package attendance

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"attendance-system/internal/global/logger"
	"attendance-system/test"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRequestLogCarriesIPAndEmployee(t *testing.T) {
	var buf bytes.Buffer
	log = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { log = logger.Discard() })

	emp := uuid.New()
	test.Do(t, func(c *gin.Context) {
		requestLog(c).Info("快速签到")
	}, nil, asEmployee(emp))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "192.0.2.1", line["client_ip"])
	require.Equal(t, emp.String(), line["employee_id"])

	buf.Reset()
	test.Do(t, func(c *gin.Context) {
		requestLog(c).Info("未登录")
	}, nil)
	line = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.NotContains(t, line, "employee_id")
}
