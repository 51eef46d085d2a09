package mh

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tu-usuario/dte-engine/pkg/mh"
)

// RespuestaRecepcion es la respuesta del servicio de recepción de MH.
type RespuestaRecepcion struct {
	Estado        string // PROCESADO | RECHAZADO
	Sello         string // sello de recepción, vacío si RECHAZADO
	Observaciones []string
}

// Transmisor simula el servicio de recepción de DTE de MH para el ambiente de
// pruebas: acepta cualquier JWS bien formado y devuelve un sello sintético.
type Transmisor struct {
	ambiente string
	log      zerolog.Logger
}

func NewTransmisor(ambiente string, log zerolog.Logger) *Transmisor {
	return &Transmisor{ambiente: ambiente, log: log}
}

// Enviar transmite el documento firmado. Un JWS malformado se rechaza con
// observaciones, igual que lo haría el servicio real; todo lo demás se procesa
// con un sello único por envío.
func (t *Transmisor) Enviar(ctx context.Context, codigoGeneracion, documentoFirmado string) (*RespuestaRecepcion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if partes := strings.Split(documentoFirmado, "."); len(partes) != 3 || partes[2] == "" {
		t.log.Warn().
			Str("codigo_generacion", codigoGeneracion).
			Msg("documento rechazado por MH: firma malformada")
		return &RespuestaRecepcion{
			Estado:        mh.EstadoRechazado,
			Observaciones: []string{"El documento no contiene una firma electrónica válida"},
		}, nil
	}

	sello := "MH" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	t.log.Info().
		Str("codigo_generacion", codigoGeneracion).
		Str("ambiente", t.ambiente).
		Str("sello", sello).
		Msg("documento procesado por MH")

	return &RespuestaRecepcion{Estado: mh.EstadoProcesado, Sello: sello}, nil
}
