package rbac_test

import (
	"io"
	"log/slog"
	"strconv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
