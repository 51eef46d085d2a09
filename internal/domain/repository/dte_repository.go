package repository

import "github.com/tu-usuario/dte-engine/internal/domain/entity"

// DTERepository persiste el historial de documentos emitidos. La capa de
// aplicación depende de esta interfaz; la implementación vive en
// infrastructure/postgres.
type DTERepository interface {
	Guardar(dte *entity.DTE) error
	Actualizar(dte *entity.DTE) error
	ObtenerPorID(id string) (*entity.DTE, error)
	ObtenerPorCodigoGeneracion(codigo string) (*entity.DTE, error)
	Listar(limite int) ([]*entity.DTE, error)
}
