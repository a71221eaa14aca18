package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrCustomerNotFound   = errors.New("cliente no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidPrice       = errors.New("precio inválido")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// La ruta de detalle de producto exige un precio de catálogo; estos dos
	// errores abortan la petición en lugar de degradar a null (a diferencia
	// del listado, que es best-effort).
	ErrPriceCollectionNotFound = errors.New("colección de precios no encontrada")
	ErrPriceNotFound           = errors.New("precio de catálogo no encontrado")
)
