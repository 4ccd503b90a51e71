package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/pdf"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "R$ 0,00",
		"9.5":       "R$ 9,50",
		"1999.99":   "R$ 1.999,99",
		"1234567.1": "R$ 1.234.567,10",
		"-2499.99":  "R$ -2.499,99",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderOrderReceipt(t *testing.T) {
	order := entity.Order{
		ID: "12",
		Items: []entity.OrderItem{
			{ProductID: "1", Quantity: 2, Name: "Smartphone XYZ", Price: decimal.RequireFromString("1999.99")},
			{ProductID: "3", Quantity: 1, Name: "Tablet Pro", Price: decimal.RequireFromString("2499.99")},
		},
		CustomerName:    "Maria Silva",
		CustomerPhone:   "11987654321",
		CustomerAddress: "Rua A, 10",
		CreatedAt:       time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		Status:          entity.OrderPending,
	}

	out, err := pdf.NewReceiptGenerator("Vortex").RenderOrderReceipt(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
