// Package dte contiene los casos de uso del motor: calcular, validar, emitir
// y consultar documentos tributarios electrónicos.
package dte

import (
	"context"

	"github.com/tu-usuario/dte-engine/internal/domain/validation"
	inframh "github.com/tu-usuario/dte-engine/internal/infrastructure/mh"
)

// Firmador produce la firma electrónica del documento (JWS compacto).
type Firmador interface {
	Firmar(documento map[string]any) (string, error)
}

// Transmisor envía el documento firmado al servicio de recepción de MH.
type Transmisor interface {
	Enviar(ctx context.Context, codigoGeneracion, documentoFirmado string) (*inframh.RespuestaRecepcion, error)
}

// SchemaResolver resuelve el contrato estructural de un tipo de DTE.
type SchemaResolver interface {
	Obtener(tipoDTE string) (*validation.NodoSchema, string, error)
}
