// Package document convierte las colecciones del catálogo al esquema JSON persistido
// ({"produtos": [...]}, {"pedidos": [...]}, {"usuarios": [...]}) y de vuelta.
// Es compartido por el store de archivos y el de PostgreSQL.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
	"github.com/jhoicas/vortex-catalogo/pkg/numeric"
)

// TimeLayout formato de fechas persistido: día/mes/año hora:minuto:segundo.
const TimeLayout = "02/01/2006 15:04:05"

// Etiquetas de estado persistidas.
const (
	StatusPending   = "Pendente"
	StatusCompleted = "Concluído"
	// statusLegacyProcessed etiqueta histórica que se migra a concluido al cargar.
	statusLegacyProcessed = "Processado"
)

type productRecord struct {
	ID                string          `json:"id"`
	Nome              string          `json:"nome"`
	Descricao         string          `json:"descricao"`
	Preco             numeric.Decimal `json:"preco"`
	QuantidadeEstoque numeric.Int     `json:"quantidade_estoque"`
	ImagemURL         *string         `json:"imagem_url"`
	DataAtualizacao   string          `json:"data_atualizacao"`
}

type orderItemRecord struct {
	ID         string          `json:"id"`
	Quantidade numeric.Int     `json:"quantidade"`
	Nome       string          `json:"nome"`
	Preco      numeric.Decimal `json:"preco"`
	Descricao  string          `json:"descricao"`
	ImagemURL  *string         `json:"imagem_url"`
}

type orderRecord struct {
	ID              string            `json:"id"`
	Produtos        []orderItemRecord `json:"produtos"`
	ClienteNome     string            `json:"cliente_nome"`
	ClienteTelefone string            `json:"cliente_telefone"`
	ClienteEndereco string            `json:"cliente_endereco"`
	DataPedido      string            `json:"data_pedido"`
	Status          string            `json:"status"`
}

type userRecord struct {
	ID          string  `json:"id"`
	Nome        string  `json:"nome"`
	Email       string  `json:"email"`
	Telefone    string  `json:"telefone"`
	SenhaHash   string  `json:"senha_hash"`
	ResetToken  *string `json:"reset_token"`
	Tipo        string  `json:"tipo"`
	DataCriacao string  `json:"data_criacao"`
}

// Encode serializa la colección col del snapshot como documento.
func Encode(col repository.Collection, snap *repository.Snapshot) ([]byte, error) {
	var body any
	switch col {
	case repository.CollectionProducts:
		recs := make([]productRecord, 0, len(snap.Products))
		for _, p := range snap.Products {
			recs = append(recs, productRecord{
				ID:                p.ID,
				Nome:              p.Name,
				Descricao:         p.Description,
				Preco:             numeric.NewDecimal(p.Price),
				QuantidadeEstoque: numeric.Int(p.Stock),
				ImagemURL:         optional(p.ImageURL),
				DataAtualizacao:   formatTime(p.UpdatedAt),
			})
		}
		body = map[string]any{string(col): recs}
	case repository.CollectionOrders:
		recs := make([]orderRecord, 0, len(snap.Orders))
		for _, o := range snap.Orders {
			items := make([]orderItemRecord, 0, len(o.Items))
			for _, it := range o.Items {
				items = append(items, orderItemRecord{
					ID:         it.ProductID,
					Quantidade: numeric.Int(it.Quantity),
					Nome:       it.Name,
					Preco:      numeric.NewDecimal(it.Price),
					Descricao:  it.Description,
					ImagemURL:  optional(it.ImageURL),
				})
			}
			recs = append(recs, orderRecord{
				ID:              o.ID,
				Produtos:        items,
				ClienteNome:     o.CustomerName,
				ClienteTelefone: o.CustomerPhone,
				ClienteEndereco: o.CustomerAddress,
				DataPedido:      formatTime(o.CreatedAt),
				Status:          StatusLabel(o.Status),
			})
		}
		body = map[string]any{string(col): recs}
	case repository.CollectionUsers:
		recs := make([]userRecord, 0, len(snap.Users))
		for _, u := range snap.Users {
			recs = append(recs, userRecord{
				ID:          u.ID,
				Nome:        u.Name,
				Email:       u.Email,
				Telefone:    u.Phone,
				SenhaHash:   u.PasswordHash,
				ResetToken:  optional(u.ResetToken),
				Tipo:        string(u.Role),
				DataCriacao: formatTime(u.CreatedAt),
			})
		}
		body = map[string]any{string(col): recs}
	default:
		return nil, fmt.Errorf("document: colección desconocida %q", col)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("document: codificando %s: %w", col, err)
	}
	return buf.Bytes(), nil
}

// Decode lee el documento de la colección col en snap. Un documento vacío es una colección vacía.
func Decode(col repository.Collection, data []byte, snap *repository.Snapshot) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	switch col {
	case repository.CollectionProducts:
		var doc struct {
			Items []productRecord `json:"produtos"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return malformed(col, err)
		}
		for _, r := range doc.Items {
			updated, err := parseTime(r.DataAtualizacao)
			if err != nil {
				return fmt.Errorf("%w: producto %s: %w", domain.ErrInvalidInput, r.ID, err)
			}
			snap.Products = append(snap.Products, entity.Product{
				ID:          r.ID,
				Name:        r.Nome,
				Description: r.Descricao,
				Price:       r.Preco.Decimal,
				Stock:       int(r.QuantidadeEstoque),
				ImageURL:    deref(r.ImagemURL),
				UpdatedAt:   updated,
			})
		}
	case repository.CollectionOrders:
		var doc struct {
			Items []orderRecord `json:"pedidos"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return malformed(col, err)
		}
		for _, r := range doc.Items {
			status, migrated, err := ParseStatus(r.Status)
			if err != nil {
				return fmt.Errorf("pedido %s: %w", r.ID, err)
			}
			snap.MigratedOrders = snap.MigratedOrders || migrated
			created, err := parseTime(r.DataPedido)
			if err != nil {
				return fmt.Errorf("%w: pedido %s: %w", domain.ErrInvalidInput, r.ID, err)
			}
			items := make([]entity.OrderItem, 0, len(r.Produtos))
			for _, it := range r.Produtos {
				items = append(items, entity.OrderItem{
					ProductID:   it.ID,
					Quantity:    int(it.Quantidade),
					Name:        it.Nome,
					Price:       it.Preco.Decimal,
					Description: it.Descricao,
					ImageURL:    deref(it.ImagemURL),
				})
			}
			snap.Orders = append(snap.Orders, entity.Order{
				ID:              r.ID,
				Items:           items,
				CustomerName:    r.ClienteNome,
				CustomerPhone:   r.ClienteTelefone,
				CustomerAddress: r.ClienteEndereco,
				CreatedAt:       created,
				Status:          status,
			})
		}
	case repository.CollectionUsers:
		var doc struct {
			Items []userRecord `json:"usuarios"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return malformed(col, err)
		}
		for _, r := range doc.Items {
			role := entity.Role(strings.TrimSpace(r.Tipo))
			if role == "" {
				role = entity.RoleEmployee
			}
			if !role.Valid() {
				return fmt.Errorf("%w: usuario %s: tipo %q desconocido", domain.ErrInvalidInput, r.ID, r.Tipo)
			}
			created, err := parseTime(r.DataCriacao)
			if err != nil {
				return fmt.Errorf("%w: usuario %s: %w", domain.ErrInvalidInput, r.ID, err)
			}
			snap.Users = append(snap.Users, entity.User{
				ID:           r.ID,
				Name:         r.Nome,
				Email:        r.Email,
				Phone:        r.Telefone,
				PasswordHash: r.SenhaHash,
				ResetToken:   deref(r.ResetToken),
				Role:         role,
				CreatedAt:    created,
			})
		}
	default:
		return fmt.Errorf("document: colección desconocida %q", col)
	}
	return nil
}

// StatusLabel etiqueta persistida de un estado.
func StatusLabel(s entity.OrderStatus) string {
	if s == entity.OrderCompleted {
		return StatusCompleted
	}
	return StatusPending
}

// ParseStatus interpreta la etiqueta persistida. La única etiqueta heredada admitida es
// "Processado", que se lee como concluido con migrated=true; cualquier otra es un error.
func ParseStatus(label string) (status entity.OrderStatus, migrated bool, err error) {
	switch norm.NFC.String(strings.TrimSpace(label)) {
	case StatusPending:
		return entity.OrderPending, false, nil
	case norm.NFC.String(StatusCompleted):
		return entity.OrderCompleted, false, nil
	case statusLegacyProcessed:
		return entity.OrderCompleted, true, nil
	}
	return "", false, fmt.Errorf("%w: estado de pedido %q desconocido", domain.ErrInvalidInput, label)
}

func malformed(col repository.Collection, err error) error {
	return fmt.Errorf("%w: documento %s mal formado: %w", domain.ErrInvalidInput, col, err)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
