// Package catalog contiene el agregado del catálogo: productos, pedidos y usuarios bajo una
// única frontera de consistencia.
package catalog

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
)

// PasswordHasher calcula y verifica hashes de contraseña.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
	// NeedsRehash indica que el hash usa un esquema o costo anterior y debe regenerarse.
	NeedsRehash(hash string) bool
}

// Option configura el agregado.
type Option func(*Catalog)

// WithStore persiste cada mutación en store. Sin store el catálogo vive solo en memoria.
func WithStore(store repository.CatalogStore) Option {
	return func(c *Catalog) { c.store = store }
}

// WithInvalidator invalida vistas en caché después de cada mutación.
func WithInvalidator(inv repository.CacheInvalidator) Option {
	return func(c *Catalog) { c.cache = inv }
}

// WithLogger define el logger del agregado.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Catalog) { c.log = log }
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithTokenGenerator reemplaza el generador de tokens de recuperación.
func WithTokenGenerator(gen func() (string, error)) Option {
	return func(c *Catalog) { c.newToken = gen }
}

// errUnchanged indica a mutate que la operación fue exitosa pero no modificó nada.
var errUnchanged = errors.New("sin cambios")

// Catalog es el agregado. Todas las mutaciones se serializan con mu; las lecturas
// copian bajo RLock y nunca ven una creación de pedido a medio confirmar.
type Catalog struct {
	mu       sync.RWMutex
	products *ProductRegistry
	orders   *OrderWorkflow
	accounts *AccountDirectory

	hasher   PasswordHasher
	store    repository.CatalogStore
	cache    repository.CacheInvalidator
	log      zerolog.Logger
	now      func() time.Time
	newToken func() (string, error)

	// generation avanza con cada cambio confirmado del contenido.
	generation atomic.Uint64

	decoyOnce sync.Once
	decoy     string
}

// New construye un catálogo vacío.
func New(hasher PasswordHasher, opts ...Option) *Catalog {
	c := &Catalog{
		hasher:   hasher,
		log:      zerolog.Nop(),
		now:      time.Now,
		newToken: generateToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.products = NewProductRegistry(c.now)
	c.orders = NewOrderWorkflow(c.products, c.now)
	c.accounts = NewAccountDirectory(c.now, c.newToken)
	return c
}

// Load reemplaza el contenido con lo que devuelve el store y re-deriva los secuenciadores.
// Si el store migró estados heredados, los pedidos se guardan de nuevo una vez.
func (c *Catalog) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	snap, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("cargando catálogo: %w", err)
	}

	c.mu.Lock()
	c.install(snap, repository.AllCollections)
	c.generation.Add(1)
	c.log.Info().
		Int("productos", c.products.Len()).
		Int("pedidos", c.orders.Len()).
		Int("usuarios", c.accounts.Len()).
		Msg("catálogo cargado")
	if snap.MigratedOrders {
		c.log.Warn().Msg("estados de pedido heredados migrados; guardando pedidos")
		if err := c.store.Save(ctx, c.capture([]repository.Collection{repository.CollectionOrders}), repository.CollectionOrders); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("%w: guardando pedidos migrados: %w", domain.ErrInternal, err)
		}
	}
	c.mu.Unlock()

	c.invalidate(ctx, repository.AllCollections)
	return nil
}

// ─── Productos ────────────────────────────────────────────────────────────────

// Products lista los productos en orden de creación.
func (c *Catalog) Products() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products.Snapshot()
}

// Product devuelve una copia del producto.
func (c *Catalog) Product(id string) (entity.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products.Get(id)
	if !ok {
		return entity.Product{}, domain.ErrProductNotFound
	}
	return *p, nil
}

// CreateProduct crea un producto.
func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (entity.Product, error) {
	var out entity.Product
	err := c.mutate(ctx, onProducts, func() error {
		p, err := c.products.Create(in)
		if err != nil {
			return err
		}
		out = *p
		return nil
	})
	return out, err
}

// UpdateProduct actualiza parcialmente un producto.
func (c *Catalog) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (entity.Product, error) {
	var out entity.Product
	err := c.mutate(ctx, onProducts, func() error {
		p, err := c.products.Update(id, patch)
		if err != nil {
			return err
		}
		out = *p
		return nil
	})
	return out, err
}

// AdjustStock suma delta (positivo o negativo) al stock del producto.
func (c *Catalog) AdjustStock(ctx context.Context, id string, delta int) (entity.Product, error) {
	var out entity.Product
	err := c.mutate(ctx, onProducts, func() error {
		p, err := c.products.AdjustStock(id, delta)
		if err != nil {
			return err
		}
		out = *p
		return nil
	})
	return out, err
}

// DeleteProduct elimina un producto que no esté en pedidos pendientes.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	return c.mutate(ctx, onProducts, func() error {
		return c.products.Delete(id, c.orders)
	})
}

// ─── Pedidos ──────────────────────────────────────────────────────────────────

// Orders lista los pedidos en orden de creación.
func (c *Catalog) Orders() []entity.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orders.Snapshot()
}

// Order devuelve una copia del pedido.
func (c *Catalog) Order(id string) (entity.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.orders.Get(id)
	if !ok {
		return entity.Order{}, domain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

// CreateOrder crea un pedido descontando stock de todos sus productos, o de ninguno.
func (c *Catalog) CreateOrder(ctx context.Context, in OrderInput) (entity.Order, error) {
	var out entity.Order
	err := c.mutate(ctx, onProductsAndOrders, func() error {
		o, err := c.orders.Create(in)
		if err != nil {
			return err
		}
		out = o.Clone()
		return nil
	})
	return out, err
}

// CompleteOrder concluye un pedido. Concluir uno ya concluido no tiene efectos.
func (c *Catalog) CompleteOrder(ctx context.Context, id string) (entity.Order, error) {
	var out entity.Order
	err := c.mutate(ctx, onOrders, func() error {
		o, changed, err := c.orders.Complete(id)
		if err != nil {
			return err
		}
		out = o.Clone()
		if !changed {
			return errUnchanged
		}
		return nil
	})
	return out, err
}

// DeleteOrder elimina un pedido concluido.
func (c *Catalog) DeleteOrder(ctx context.Context, id string) error {
	return c.mutate(ctx, onOrders, func() error {
		return c.orders.Delete(id)
	})
}

// ─── Usuarios ─────────────────────────────────────────────────────────────────

// Users lista los usuarios sin hash ni token.
func (c *Catalog) Users() []entity.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := c.accounts.Snapshot()
	out := make([]entity.User, 0, len(all))
	for i := range all {
		out = append(out, all[i].Sanitized())
	}
	return out
}

// User devuelve una copia sanitizada del usuario.
func (c *Catalog) User(id string) (entity.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.accounts.Get(id)
	if !ok {
		return entity.User{}, domain.ErrUserNotFound
	}
	return u.Sanitized(), nil
}

// CreateUser crea un usuario en nombre de actor.
func (c *Catalog) CreateUser(ctx context.Context, actor Actor, in UserInput) (entity.User, error) {
	if err := ValidatePassword(in.Password); err != nil {
		return entity.User{}, err
	}
	hash, err := c.hash(in.Password)
	if err != nil {
		return entity.User{}, err
	}
	var out entity.User
	err = c.mutate(ctx, onUsers, func() error {
		u, err := c.accounts.Create(actor, in, hash)
		if err != nil {
			return err
		}
		out = u.Sanitized()
		return nil
	})
	return out, err
}

// EnsureManager crea in como gerente solo si no existe ningún usuario. Devuelve created=false si ya había usuarios.
func (c *Catalog) EnsureManager(ctx context.Context, in UserInput) (u entity.User, created bool, err error) {
	c.mu.RLock()
	empty := c.accounts.Len() == 0
	c.mu.RUnlock()
	if !empty {
		return entity.User{}, false, nil
	}
	if err := ValidatePassword(in.Password); err != nil {
		return entity.User{}, false, err
	}
	hash, err := c.hash(in.Password)
	if err != nil {
		return entity.User{}, false, err
	}
	in.Role = entity.RoleManager
	err = c.mutate(ctx, onUsers, func() error {
		if c.accounts.Len() > 0 {
			return errUnchanged
		}
		nu, err := c.accounts.insert(in, hash)
		if err != nil {
			return err
		}
		u = nu.Sanitized()
		created = true
		return nil
	})
	return u, created, err
}

// UpdateUser actualiza parcialmente un usuario en nombre de actor.
func (c *Catalog) UpdateUser(ctx context.Context, actor Actor, id string, patch UserPatch) (entity.User, error) {
	var hash string
	if patch.Password != nil {
		if err := ValidatePassword(*patch.Password); err != nil {
			return entity.User{}, err
		}
		h, err := c.hash(*patch.Password)
		if err != nil {
			return entity.User{}, err
		}
		hash = h
	}
	var out entity.User
	err := c.mutate(ctx, onUsers, func() error {
		u, err := c.accounts.Update(actor, id, patch, hash)
		if err != nil {
			return err
		}
		out = u.Sanitized()
		return nil
	})
	return out, err
}

// DeleteUser elimina un usuario en nombre de actor.
func (c *Catalog) DeleteUser(ctx context.Context, actor Actor, id string) error {
	return c.mutate(ctx, onUsers, func() error {
		return c.accounts.Delete(actor, id)
	})
}

// Authenticate busca por email y luego por teléfono y verifica la contraseña.
// Usuario inexistente y contraseña incorrecta devuelven el mismo ErrInvalidCredentials.
// Un hash con esquema anterior se regenera tras un login exitoso.
func (c *Catalog) Authenticate(ctx context.Context, credential, password string) (entity.User, error) {
	c.mu.RLock()
	found, ok := c.accounts.FindByCredential(credential)
	var u entity.User
	if ok {
		u = *found
	}
	c.mu.RUnlock()
	if !ok {
		// Misma verificación que con un usuario real para no revelar qué credenciales existen.
		if decoy := c.decoyHash(); decoy != "" {
			_, _ = c.hasher.Verify(password, decoy)
		}
		return entity.User{}, domain.ErrInvalidCredentials
	}

	if err := c.verify(u, password); err != nil {
		return entity.User{}, err
	}
	if c.hasher.NeedsRehash(u.PasswordHash) {
		c.upgradeHash(ctx, u, password)
	}
	return u.Sanitized(), nil
}

// CheckPassword verifica la contraseña de un usuario conocido por id.
func (c *Catalog) CheckPassword(userID, password string) error {
	c.mu.RLock()
	found, ok := c.accounts.Get(userID)
	var u entity.User
	if ok {
		u = *found
	}
	c.mu.RUnlock()
	if !ok {
		return domain.ErrInvalidCredentials
	}
	return c.verify(u, password)
}

// IssueResetToken emite un token de recuperación para la credencial (email o teléfono).
// El token reemplaza cualquier token anterior del usuario.
func (c *Catalog) IssueResetToken(ctx context.Context, credential string) (entity.User, string, error) {
	var (
		out   entity.User
		token string
	)
	err := c.mutate(ctx, onUsers, func() error {
		u, err := c.accounts.IssueResetToken(credential)
		if err != nil {
			return err
		}
		token = u.ResetToken
		out = u.Sanitized()
		return nil
	})
	if err != nil {
		return entity.User{}, "", err
	}
	return out, token, nil
}

// ConsumeResetToken define una nueva contraseña usando el token y lo invalida.
func (c *Catalog) ConsumeResetToken(ctx context.Context, token, newPassword string) (entity.User, error) {
	if token == "" {
		return entity.User{}, domain.ErrTokenNotFound
	}
	if err := ValidatePassword(newPassword); err != nil {
		return entity.User{}, err
	}
	hash, err := c.hash(newPassword)
	if err != nil {
		return entity.User{}, err
	}
	var out entity.User
	err = c.mutate(ctx, onUsers, func() error {
		u, err := c.accounts.ConsumeResetToken(token, hash)
		if err != nil {
			return err
		}
		out = u.Sanitized()
		return nil
	})
	return out, err
}

// Generation número que avanza con cada cambio confirmado. Se incrementa antes de liberar
// el lock de escritura y antes de invalidar la caché.
func (c *Catalog) Generation() uint64 {
	return c.generation.Load()
}

// Counts cantidad de productos, pedidos y usuarios.
func (c *Catalog) Counts() (products, orders, users int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products.Len(), c.orders.Len(), c.accounts.Len()
}

// ─── Internos ─────────────────────────────────────────────────────────────────

var (
	onProducts          = []repository.Collection{repository.CollectionProducts}
	onOrders            = []repository.Collection{repository.CollectionOrders}
	onUsers             = []repository.Collection{repository.CollectionUsers}
	onProductsAndOrders = []repository.Collection{repository.CollectionProducts, repository.CollectionOrders}
)

// mutate ejecuta apply bajo el lock de escritura y guarda las colecciones tocadas antes de liberarlo.
// Si apply o el guardado fallan, las colecciones vuelven a su estado anterior.
func (c *Catalog) mutate(ctx context.Context, touched []repository.Collection, apply func() error) error {
	c.mu.Lock()
	backup := c.capture(touched)
	if err := apply(); err != nil {
		if errors.Is(err, errUnchanged) {
			c.mu.Unlock()
			return nil
		}
		c.install(backup, touched)
		c.mu.Unlock()
		return err
	}
	if err := c.persist(ctx, touched, backup); err != nil {
		c.mu.Unlock()
		return err
	}
	c.generation.Add(1)
	c.mu.Unlock()

	c.invalidate(ctx, touched)
	return nil
}

func (c *Catalog) persist(ctx context.Context, touched []repository.Collection, backup *repository.Snapshot) error {
	if c.store == nil {
		return nil
	}
	err := c.store.Save(ctx, c.capture(touched), touched...)
	if err == nil {
		return nil
	}
	c.install(backup, touched)
	names := collectionNames(touched)
	c.log.Error().Err(err).Strs("colecciones", names).Msg("no se pudo guardar el catálogo; cambios revertidos")
	if cerr := c.store.Save(ctx, backup, touched...); cerr != nil {
		c.log.Error().Err(cerr).Strs("colecciones", names).Msg("guardado compensatorio fallido")
	}
	return fmt.Errorf("%w: guardando %v: %w", domain.ErrInternal, names, err)
}

func (c *Catalog) invalidate(ctx context.Context, touched []repository.Collection) {
	if c.cache == nil {
		return
	}
	for _, col := range touched {
		if err := c.cache.Invalidate(ctx, col); err != nil {
			c.log.Warn().Err(err).Str("coleccion", string(col)).Msg("no se pudo invalidar la caché")
		}
	}
}

// capture copia las colecciones indicadas.
func (c *Catalog) capture(touched []repository.Collection) *repository.Snapshot {
	snap := &repository.Snapshot{}
	for _, col := range touched {
		switch col {
		case repository.CollectionProducts:
			snap.Products = c.products.Snapshot()
		case repository.CollectionOrders:
			snap.Orders = c.orders.Snapshot()
		case repository.CollectionUsers:
			snap.Users = c.accounts.Snapshot()
		}
	}
	return snap
}

// install reemplaza las colecciones indicadas con las del snapshot.
func (c *Catalog) install(snap *repository.Snapshot, touched []repository.Collection) {
	for _, col := range touched {
		var nonNumeric, dups []string
		switch col {
		case repository.CollectionProducts:
			nonNumeric, dups = c.products.Reset(snap.Products)
		case repository.CollectionOrders:
			nonNumeric, dups = c.orders.Reset(snap.Orders)
		case repository.CollectionUsers:
			nonNumeric, dups = c.accounts.Reset(snap.Users)
		}
		if len(nonNumeric) > 0 {
			c.log.Warn().Str("coleccion", string(col)).Strs("ids", nonNumeric).Msg("ids no numéricos aceptados")
		}
		if len(dups) > 0 {
			c.log.Warn().Str("coleccion", string(col)).Strs("ids", dups).Msg("ids duplicados descartados")
		}
	}
}

func (c *Catalog) hash(password string) (string, error) {
	if c.hasher == nil {
		return "", fmt.Errorf("%w: hasher no configurado", domain.ErrInternal)
	}
	h, err := c.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: hash de contraseña: %w", domain.ErrInternal, err)
	}
	return h, nil
}

// decoyHash hash de una contraseña que nadie usa, con el esquema y costo actuales.
func (c *Catalog) decoyHash() string {
	c.decoyOnce.Do(func() {
		if c.hasher == nil {
			return
		}
		h, err := c.hasher.Hash("x9-sin-usuario-x9")
		if err != nil {
			c.log.Warn().Err(err).Msg("no se pudo preparar el hash señuelo")
			return
		}
		c.decoy = h
	})
	return c.decoy
}

func (c *Catalog) verify(u entity.User, password string) error {
	if c.hasher == nil {
		return fmt.Errorf("%w: hasher no configurado", domain.ErrInternal)
	}
	ok, err := c.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", u.ID).Msg("hash de contraseña ilegible")
		return domain.ErrInvalidCredentials
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// upgradeHash regenera el hash con el esquema actual. Un fallo solo se registra: el login ya fue válido.
func (c *Catalog) upgradeHash(ctx context.Context, u entity.User, password string) {
	hash, err := c.hash(password)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", u.ID).Msg("no se pudo regenerar el hash")
		return
	}
	err = c.mutate(ctx, onUsers, func() error {
		cur, ok := c.accounts.Get(u.ID)
		if !ok || cur.PasswordHash != u.PasswordHash {
			return errUnchanged
		}
		_, err := c.accounts.SetPasswordHash(u.ID, hash)
		return err
	})
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", u.ID).Msg("no se pudo regenerar el hash")
		return
	}
	c.log.Info().Str("user_id", u.ID).Msg("hash de contraseña actualizado")
}

func collectionNames(cols []repository.Collection) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		out = append(out, string(col))
	}
	return out
}

// generateToken 32 bytes aleatorios en base64 URL.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
