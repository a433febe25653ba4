package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServerRunReturnsListenError(t *testing.T) {
	srv := NewServer("127.0.0.1:-1", http.NewServeMux(), zap.NewNop())
	err := srv.Run()
	require.Error(t, err, "an unbindable address must surface as a run error")
}
