package secuencias

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoriaAsignador(t *testing.T) {
	asignador := NewMemoriaAsignador()
	ctx := context.Background()
	hoy := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	for esperado := 1; esperado <= 3; esperado++ {
		n, err := asignador.Siguiente(ctx, "cuenta", hoy)
		require.NoError(t, err)
		assert.Equal(t, esperado, n)
	}

	// Cada tipo y cada día llevan su propia secuencia.
	n, err := asignador.Siguiente(ctx, "novedad", hoy)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = asignador.Siguiente(ctx, "cuenta", hoy.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
