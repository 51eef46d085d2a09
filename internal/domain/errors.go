package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado    = errors.New("recurso no encontrado")
	ErrEntradaInvalida = errors.New("entrada inválida")
	ErrDuplicado       = errors.New("recurso duplicado")
	ErrNoAutorizado    = errors.New("no autorizado")
	ErrProhibido       = errors.New("acceso denegado")

	// ErrConfiguracion indica un tipo de DTE o schema no registrado. Es el único
	// caso fatal del motor: sin reglas ni schema no hay validación posible.
	ErrConfiguracion = errors.New("configuración de tipo de DTE o schema no encontrada")
)
