package dbmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationLabel(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM mentorship_sessions"))
	assert.Equal(t, "insert", operation("\n  INSERT INTO x VALUES ($1)"))
	assert.Equal(t, "unknown", operation("   "))
}

func TestGetExecutorFallsBack(t *testing.T) {
	fallback := &DB{}
	assert.Same(t, fallback, GetExecutor(context.Background(), fallback))

	tx := &Tx{}
	ctx := WithTx(context.Background(), tx)
	assert.Same(t, tx, GetExecutor(ctx, fallback))
}
