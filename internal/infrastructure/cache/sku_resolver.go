package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/s25commerce/pricing-api/internal/application/catalog"
	"github.com/s25commerce/pricing-api/internal/application/transfer"
	"github.com/s25commerce/pricing-api/pkg/logger"
)

var (
	_ transfer.ProductResolver = (*SKUResolver)(nil)
	_ catalog.SKUInvalidator   = (*SKUResolver)(nil)
)

// SKUResolver decora un ProductResolver con una caché Redis sku -> product id.
// La caché es best-effort: cualquier fallo de Redis se registra y la
// resolución cae al delegado. Un SKU inexistente no se cachea, para que
// un producto recién creado se resuelva en el siguiente import.
type SKUResolver struct {
	client   *redis.Client
	delegate transfer.ProductResolver
	ttl      time.Duration
	log      *logger.Logger
}

// NewSKUResolver construye el decorador. Verifica la conexión con un ping.
func NewSKUResolver(client *redis.Client, delegate transfer.ProductResolver, ttl time.Duration, log *logger.Logger) (*SKUResolver, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectando a redis: %w", err)
	}
	return &SKUResolver{client: client, delegate: delegate, ttl: ttl, log: log}, nil
}

func skuKey(sku string) string {
	return "pricing:sku:" + sku
}

// ResolveSKU resuelve el product id de un SKU, primero en caché y luego
// contra el delegado. Devuelve "" cuando el SKU no existe.
func (r *SKUResolver) ResolveSKU(ctx context.Context, sku string) (string, error) {
	id, err := r.client.Get(ctx, skuKey(sku)).Result()
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Str("sku", sku).Msg("Error leyendo caché de SKU, consultando base de datos")
	}

	id, err = r.delegate.ResolveSKU(ctx, sku)
	if err != nil {
		return "", err
	}
	if id != "" {
		if err := r.client.Set(ctx, skuKey(sku), id, r.ttl).Err(); err != nil {
			r.log.Warn().Err(err).Str("sku", sku).Msg("Error escribiendo caché de SKU")
		}
	}
	return id, nil
}

// Invalidate elimina la entrada de un SKU, por ejemplo tras borrar el producto.
func (r *SKUResolver) Invalidate(ctx context.Context, sku string) {
	if err := r.client.Del(ctx, skuKey(sku)).Err(); err != nil {
		r.log.Warn().Err(err).Str("sku", sku).Msg("Error invalidando caché de SKU")
	}
}
