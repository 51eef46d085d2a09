package dte

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/dte-engine/internal/application/dto"
	"github.com/tu-usuario/dte-engine/internal/domain"
	domdte "github.com/tu-usuario/dte-engine/internal/domain/dte"
	"github.com/tu-usuario/dte-engine/internal/domain/entity"
	"github.com/tu-usuario/dte-engine/internal/domain/repository"
	"github.com/tu-usuario/dte-engine/internal/domain/validation"
	"github.com/tu-usuario/dte-engine/pkg/mh"
	"github.com/tu-usuario/dte-engine/pkg/money"
)

// versionDTE versión del formato de documento que emite el motor.
const versionDTE = 1

// EmitirUseCase orquesta el ciclo completo de emisión:
//
//	Cálculo → Armado del documento → Validación (3 etapas) → Firma JWS → Envío MH → Update DB
//
// Transiciones de estado: BORRADOR → FIRMADO → PROCESADO|RECHAZADO. Una
// validación fallida termina en ERROR_GENERACION sin firmar ni transmitir.
type EmitirUseCase struct {
	repo       repository.DTERepository
	firmador   Firmador
	transmisor Transmisor
	schemas    SchemaResolver
	ambiente   string
	log        zerolog.Logger
}

// NewEmitirUseCase construye el orquestador con todas sus dependencias.
func NewEmitirUseCase(
	repo repository.DTERepository,
	firmador Firmador,
	transmisor Transmisor,
	schemas SchemaResolver,
	ambiente string,
	log zerolog.Logger,
) *EmitirUseCase {
	return &EmitirUseCase{
		repo:       repo,
		firmador:   firmador,
		transmisor: transmisor,
		schemas:    schemas,
		ambiente:   ambiente,
		log:        log,
	}
}

// Ejecutar emite un documento. Una validación fallida no es un error de la
// operación: se persiste el intento en ERROR_GENERACION y el reporte vuelve al
// llamador para corrección. Los errores duros (tipo sin reglas, schema
// ausente, fallas de firma o persistencia) sí cortan con error.
func (uc *EmitirUseCase) Ejecutar(ctx context.Context, req dto.EmitirRequest) (*dto.EmitirResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: el documento no tiene ítems", domain.ErrEntradaInvalida)
	}
	regla, err := domdte.ReglasEstrictas(req.TipoDTE)
	if err != nil {
		return nil, err
	}
	schema, nombreSchema, err := uc.schemas.Obtener(regla.Codigo)
	if err != nil {
		return nil, err
	}

	resultado := domdte.CalcularDocumento(itemsDesdeRequest(req.Items), domdte.Opciones{
		TipoDTE:          regla.Codigo,
		DescuentoGlobal:  req.DescuentoGlobal,
		AplicarRetencion: req.AplicarRetencion,
	})
	resultado.Tributos = domdte.GenerarTributos(&resultado)

	now := time.Now()
	codigoGeneracion := strings.ToUpper(uuid.NewString())
	numeroControl := generarNumeroControl(regla.Codigo, req.Emisor.CodigoEstablecimiento, now)

	documento, err := normalizarDocumento(construirDocumento(req, regla, &resultado, codigoGeneracion, numeroControl, uc.ambiente, now))
	if err != nil {
		return nil, fmt.Errorf("armar documento: %w", err)
	}

	calculo := validation.ValidarCalculo(&resultado, regla)
	estructura := validation.NuevoReporte(nombreSchema, validation.ValidarSchema(documento, schema))
	negocio := validation.NuevoReporte("", validation.ValidarNegocio(documento))
	reporte := validation.Consolidar(calculo, estructura, negocio)

	registro := &entity.DTE{
		ID:               uuid.New().String(),
		CodigoGeneracion: codigoGeneracion,
		TipoDTE:          regla.Codigo,
		NumeroControl:    numeroControl,
		FecEmi:           now,
		VentasNetas:      resultado.VentasNetas,
		IVA:              resultado.IVA,
		Retencion:        resultado.Retencion,
		MontoTotal:       resultado.MontoTotal,
		Estado:           mh.EstadoBorrador,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := asignarDocumentoJSON(registro, documento); err != nil {
		return nil, err
	}

	if !reporte.EsValido {
		registro.Estado = mh.EstadoErrorGeneracion
		registro.Observaciones = fmt.Sprintf("validación fallida: %d errores", reporte.TotalErrores)
		if err := uc.repo.Guardar(registro); err != nil {
			return nil, err
		}
		uc.log.Warn().
			Str("codigo_generacion", codigoGeneracion).
			Str("tipo_dte", regla.Codigo).
			Int("errores", reporte.TotalErrores).
			Msg("emisión abortada por validación")
		return uc.respuesta(registro, &reporte, documento), nil
	}

	if err := uc.repo.Guardar(registro); err != nil {
		return nil, err
	}

	firmado, err := uc.firmador.Firmar(documento)
	if err != nil {
		registro.Estado = mh.EstadoErrorGeneracion
		registro.Observaciones = fmt.Sprintf("firma fallida: %v", err)
		registro.UpdatedAt = time.Now()
		if updErr := uc.repo.Actualizar(registro); updErr != nil {
			uc.log.Error().Err(updErr).Str("id", registro.ID).Msg("no se pudo persistir ERROR_GENERACION")
		}
		return nil, fmt.Errorf("firmar documento: %w", err)
	}

	documento["firmaElectronica"] = firmado
	registro.Estado = mh.EstadoFirmado
	registro.UpdatedAt = time.Now()
	if err := asignarDocumentoJSON(registro, documento); err != nil {
		return nil, err
	}
	if err := uc.repo.Actualizar(registro); err != nil {
		return nil, err
	}

	respuestaMH, err := uc.transmisor.Enviar(ctx, codigoGeneracion, firmado)
	if err != nil {
		// El documento queda FIRMADO; el reenvío es responsabilidad del llamador.
		return nil, fmt.Errorf("transmitir a MH: %w", err)
	}

	registro.Estado = respuestaMH.Estado
	registro.SelloRecibido = respuestaMH.Sello
	registro.Observaciones = strings.Join(respuestaMH.Observaciones, "; ")
	registro.UpdatedAt = time.Now()
	if respuestaMH.Sello != "" {
		documento["selloRecibido"] = respuestaMH.Sello
		if err := asignarDocumentoJSON(registro, documento); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Actualizar(registro); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("codigo_generacion", codigoGeneracion).
		Str("tipo_dte", regla.Codigo).
		Str("estado", registro.Estado).
		Msg("emisión completada")

	return uc.respuesta(registro, &reporte, documento), nil
}

func (uc *EmitirUseCase) respuesta(registro *entity.DTE, reporte *validation.ReporteGlobal, documento map[string]any) *dto.EmitirResponse {
	var observaciones []string
	if registro.Observaciones != "" {
		observaciones = strings.Split(registro.Observaciones, "; ")
	}
	return &dto.EmitirResponse{
		ID:               registro.ID,
		CodigoGeneracion: registro.CodigoGeneracion,
		NumeroControl:    registro.NumeroControl,
		Estado:           registro.Estado,
		SelloRecibido:    registro.SelloRecibido,
		Observaciones:    observaciones,
		Reporte:          reporte,
		Documento:        documento,
	}
}

func asignarDocumentoJSON(registro *entity.DTE, documento map[string]any) error {
	raw, err := json.Marshal(documento)
	if err != nil {
		return fmt.Errorf("serializar documento: %w", err)
	}
	registro.DocumentoJSON = string(raw)
	return nil
}

// generarNumeroControl arma DTE-<tipo>-<establecimiento 8>-<correlativo 15>.
// Sin una secuencia fiscal propia, el correlativo deriva del reloj; la unicidad
// real la da el código de generación.
func generarNumeroControl(tipoDTE, establecimiento string, now time.Time) string {
	if len(establecimiento) != 8 {
		establecimiento = "M001P001"
	}
	return fmt.Sprintf("DTE-%s-%s-%015d", tipoDTE, strings.ToUpper(establecimiento), now.UnixNano()%1_000_000_000_000_000)
}

// construirDocumento arma el DTE con las secciones que exige el contrato del
// tipo: identificación, emisor, receptor (o sujetoExcluido), cuerpo y resumen.
func construirDocumento(
	req dto.EmitirRequest,
	regla domdte.ReglaTipo,
	resultado *domdte.ResultadoCalculo,
	codigoGeneracion, numeroControl, ambiente string,
	now time.Time,
) map[string]any {
	emisor := map[string]any{
		"nit":    req.Emisor.NIT,
		"nombre": req.Emisor.Nombre,
	}
	if req.Emisor.NRC != "" {
		emisor["nrc"] = req.Emisor.NRC
	}

	doc := map[string]any{
		"identificacion": map[string]any{
			"version":          versionDTE,
			"ambiente":         ambiente,
			"tipoDte":          regla.Codigo,
			"numeroControl":    numeroControl,
			"codigoGeneracion": codigoGeneracion,
			"fecEmi":           now.Format("2006-01-02"),
			"horEmi":           now.Format("15:04:05"),
			"tipoMoneda":       "USD",
		},
		"emisor":          emisor,
		"cuerpoDocumento": cuerpoDesdeItems(regla, resultado),
		"resumen":         resumenDocumento(req, regla, resultado),
	}

	if regla.Codigo == mh.TipoFacturaSujetoExcl {
		doc["sujetoExcluido"] = req.Receptor
	} else {
		doc["receptor"] = req.Receptor
	}
	return doc
}

func cuerpoDesdeItems(regla domdte.ReglaTipo, resultado *domdte.ResultadoCalculo) []any {
	cuerpo := make([]any, 0, len(resultado.Items))
	for i, it := range resultado.Items {
		switch regla.Codigo {
		case mh.TipoComprobanteRet:
			cuerpo = append(cuerpo, map[string]any{
				"numItem":         i + 1,
				"descripcion":     it.Descripcion,
				"montoSujetoGrav": money.Float(it.Gravada),
				"ivaRetenido":     money.Float(money.Round2(it.Gravada.Mul(regla.Retencion.Tasa))),
			})
		case mh.TipoFacturaSujetoExcl:
			cuerpo = append(cuerpo, map[string]any{
				"numItem":     i + 1,
				"cantidad":    money.Float(it.Cantidad),
				"descripcion": it.Descripcion,
				"precioUni":   money.Float(it.PrecioUnitario),
				"montoDescu":  money.Float(it.Descuento),
				"compra":      money.Float(it.Total),
			})
		default:
			linea := map[string]any{
				"numItem":      i + 1,
				"cantidad":     money.Float(it.Cantidad),
				"descripcion":  it.Descripcion,
				"precioUni":    money.Float(it.PrecioUnitario),
				"montoDescu":   money.Float(it.Descuento),
				"ventaGravada": money.Float(it.Gravada),
			}
			if it.Exenta.GreaterThan(decimal.Zero) {
				linea["ventaExenta"] = money.Float(it.Exenta)
			}
			if regla.Codigo == mh.TipoFactura {
				linea["ivaItem"] = money.Float(it.IVAItem)
			}
			cuerpo = append(cuerpo, linea)
		}
	}
	return cuerpo
}

func resumenDocumento(req dto.EmitirRequest, regla domdte.ReglaTipo, resultado *domdte.ResultadoCalculo) map[string]any {
	resumen := make(map[string]any, len(resultado.Resumen)+2)
	for k, v := range resultado.Resumen {
		resumen[k] = v
	}

	// El comprobante de retención no lleva condición de operación.
	if regla.Codigo != mh.TipoComprobanteRet {
		condicion := req.CondicionOperacion
		if condicion == 0 {
			condicion = mh.CondicionContado
		}
		resumen["condicionOperacion"] = condicion
	}

	if len(resultado.Tributos) > 0 {
		tributos := make([]any, 0, len(resultado.Tributos))
		for _, t := range resultado.Tributos {
			tributos = append(tributos, map[string]any{
				"codigo":      t.Codigo,
				"descripcion": t.Descripcion,
				"valor":       money.Float(t.Valor),
			})
		}
		resumen["tributos"] = tributos
	}
	return resumen
}

// normalizarDocumento pasa el documento por un ciclo JSON para que los valores
// queden con los tipos que ven los validadores (números como float64).
func normalizarDocumento(doc map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var normalizado map[string]any
	if err := json.Unmarshal(raw, &normalizado); err != nil {
		return nil, err
	}
	return normalizado, nil
}
