package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
)

var requiredColumns = []string{"nome", "preco", "quantidade_estoque"}

type productRow struct {
	line  int
	input catalog.ProductInput
}

// decodeText convierte raw a UTF-8. Con "auto", un archivo que no es UTF-8 válido se lee como Windows-1252.
func decodeText(raw []byte, charset string) ([]byte, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "auto":
		if utf8.Valid(raw) {
			enc = unicode.UTF8BOM
		} else {
			enc = charmap.Windows1252
		}
	case "utf-8", "utf8":
		enc = unicode.UTF8BOM
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("charset %q no soportado", charset)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("charset %s: %w", charset, err)
	}
	return out, nil
}

// parseProducts lee el CSV con cabecera. Las columnas se ubican por nombre; descricao e imagem_url son opcionales.
func parseProducts(r io.Reader) ([]productRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("archivo vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []productRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}
		price, err := parsePrice(field(rec, "preco"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		stock, err := strconv.Atoi(field(rec, "quantidade_estoque"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: quantidade_estoque %q no es un entero", line, field(rec, "quantidade_estoque"))
		}
		rows = append(rows, productRow{line: line, input: catalog.ProductInput{
			Name:        field(rec, "nome"),
			Description: field(rec, "descricao"),
			Price:       price,
			Stock:       stock,
			ImageURL:    field(rec, "imagem_url"),
		}})
	}
	return rows, nil
}

// parsePrice acepta "1999.99", "1999,99" y "1.999,99".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("preco %q inválido", s)
	}
	return d, nil
}
