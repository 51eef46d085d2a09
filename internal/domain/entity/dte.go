package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DTE representa un documento tributario electrónico emitido, tal como se
// persiste en el historial de emisiones.
type DTE struct {
	ID               string
	CodigoGeneracion string // UUID v4 en mayúsculas, identidad del documento ante MH
	TipoDTE          string
	NumeroControl    string
	FecEmi           time.Time
	VentasNetas      decimal.Decimal
	IVA              decimal.Decimal
	Retencion        decimal.Decimal
	MontoTotal       decimal.Decimal
	Estado           string // BORRADOR|FIRMADO|PROCESADO|RECHAZADO|ERROR_GENERACION
	SelloRecibido    string // Sello de recepción devuelto por MH (vacío hasta PROCESADO)
	Observaciones    string // Mensajes de rechazo u observaciones de MH
	DocumentoJSON    string // Documento completo tal como se firmó
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
