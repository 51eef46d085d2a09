package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/dte-engine/internal/domain/dte"
	"github.com/tu-usuario/dte-engine/internal/domain/validation"
)

// ItemRequest línea de detalle tal como la envía el llamador.
type ItemRequest struct {
	Descripcion string          `json:"descripcion"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	PrecioUni   decimal.Decimal `json:"precioUni"`
	MontoDescu  decimal.Decimal `json:"montoDescu"`
	Exento      bool            `json:"exento,omitempty"`
}

// CalcularRequest body para POST /api/dte/calcular.
type CalcularRequest struct {
	TipoDTE          string          `json:"tipoDte"`
	Items            []ItemRequest   `json:"items"`
	DescuentoGlobal  decimal.Decimal `json:"descuentoGlobal"`
	AplicarRetencion bool            `json:"aplicarRetencion"`
}

// ItemResponse línea con sus montos derivados.
type ItemResponse struct {
	Descripcion  string          `json:"descripcion"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	PrecioUni    decimal.Decimal `json:"precioUni"`
	MontoDescu   decimal.Decimal `json:"montoDescu"`
	VentaGravada decimal.Decimal `json:"ventaGravada"`
	VentaExenta  decimal.Decimal `json:"ventaExenta"`
	IVAItem      decimal.Decimal `json:"ivaItem"`
	Total        decimal.Decimal `json:"total"`
}

// TributoResponse línea de tributo del resumen.
type TributoResponse struct {
	Codigo      string          `json:"codigo"`
	Descripcion string          `json:"descripcion"`
	Valor       decimal.Decimal `json:"valor"`
}

// CalcularResponse totales del documento más el resumen específico del tipo.
type CalcularResponse struct {
	TipoDTE      string            `json:"tipoDte"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	Descuentos   decimal.Decimal   `json:"descuentos"`
	VentasNetas  decimal.Decimal   `json:"ventasNetas"`
	TotalGravada decimal.Decimal   `json:"totalGravada"`
	TotalExenta  decimal.Decimal   `json:"totalExenta"`
	IVA          decimal.Decimal   `json:"iva"`
	Retencion    decimal.Decimal   `json:"retencion"`
	MontoTotal   decimal.Decimal   `json:"montoTotal"`
	TotalAPagar  decimal.Decimal   `json:"totalPagar"`
	Items        []ItemResponse    `json:"items"`
	Resumen      map[string]any    `json:"resumen"`
	Tributos     []TributoResponse `json:"tributos"`
}

// NuevaCalcularResponse mapea el resultado del motor al DTO de salida.
func NuevaCalcularResponse(r *dte.ResultadoCalculo) *CalcularResponse {
	items := make([]ItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ItemResponse{
			Descripcion:  it.Descripcion,
			Cantidad:     it.Cantidad,
			PrecioUni:    it.PrecioUnitario,
			MontoDescu:   it.Descuento,
			VentaGravada: it.Gravada,
			VentaExenta:  it.Exenta,
			IVAItem:      it.IVAItem,
			Total:        it.Total,
		})
	}
	tributos := make([]TributoResponse, 0, len(r.Tributos))
	for _, t := range r.Tributos {
		tributos = append(tributos, TributoResponse{Codigo: t.Codigo, Descripcion: t.Descripcion, Valor: t.Valor})
	}
	return &CalcularResponse{
		TipoDTE:      r.TipoDTE,
		Subtotal:     r.Subtotal,
		Descuentos:   r.Descuentos,
		VentasNetas:  r.VentasNetas,
		TotalGravada: r.TotalGravada,
		TotalExenta:  r.TotalExenta,
		IVA:          r.IVA,
		Retencion:    r.Retencion,
		MontoTotal:   r.MontoTotal,
		TotalAPagar:  r.TotalAPagar,
		Items:        items,
		Resumen:      r.Resumen,
		Tributos:     tributos,
	}
}

// ValidarRequest body para POST /api/dte/validar. Documento es el DTE completo
// a validar; Items es opcional y, si viene, se usa para recalcular los totales
// en lugar de derivar las líneas del cuerpoDocumento.
type ValidarRequest struct {
	TipoDTE          string          `json:"tipoDte"`
	Documento        map[string]any  `json:"documento"`
	Items            []ItemRequest   `json:"items,omitempty"`
	DescuentoGlobal  decimal.Decimal `json:"descuentoGlobal"`
	AplicarRetencion bool            `json:"aplicarRetencion"`
}

// EmisorRequest datos del emisor para la emisión.
type EmisorRequest struct {
	NIT                   string `json:"nit"`
	NRC                   string `json:"nrc,omitempty"`
	Nombre                string `json:"nombre"`
	CodigoEstablecimiento string `json:"codigoEstablecimiento,omitempty"`
}

// EmitirRequest body para POST /api/dte/emitir: calcula, valida, firma y
// transmite en una sola operación.
type EmitirRequest struct {
	TipoDTE            string          `json:"tipoDte"`
	Emisor             EmisorRequest   `json:"emisor"`
	Receptor           map[string]any  `json:"receptor,omitempty"`
	Items              []ItemRequest   `json:"items"`
	DescuentoGlobal    decimal.Decimal `json:"descuentoGlobal"`
	AplicarRetencion   bool            `json:"aplicarRetencion"`
	CondicionOperacion int             `json:"condicionOperacion,omitempty"`
}

// EmitirResponse resultado de la emisión. Si la validación falla, Estado es
// ERROR_GENERACION y Reporte trae el detalle; el documento no se firma.
type EmitirResponse struct {
	ID               string                    `json:"id"`
	CodigoGeneracion string                    `json:"codigoGeneracion"`
	NumeroControl    string                    `json:"numeroControl"`
	Estado           string                    `json:"estado"`
	SelloRecibido    string                    `json:"selloRecibido,omitempty"`
	Observaciones    []string                  `json:"observaciones,omitempty"`
	Reporte          *validation.ReporteGlobal `json:"reporte,omitempty"`
	Documento        map[string]any            `json:"documento,omitempty"`
}

// DTEResponse documento emitido para GET /api/dte/:id.
type DTEResponse struct {
	ID               string          `json:"id"`
	CodigoGeneracion string          `json:"codigoGeneracion"`
	TipoDTE          string          `json:"tipoDte"`
	NumeroControl    string          `json:"numeroControl"`
	FecEmi           string          `json:"fecEmi"`
	VentasNetas      decimal.Decimal `json:"ventasNetas"`
	IVA              decimal.Decimal `json:"iva"`
	Retencion        decimal.Decimal `json:"retencion"`
	MontoTotal       decimal.Decimal `json:"montoTotal"`
	Estado           string          `json:"estado"`
	SelloRecibido    string          `json:"selloRecibido,omitempty"`
	Observaciones    string          `json:"observaciones,omitempty"`
}

// EstadoResponse estado de procesamiento para GET /api/dte/:id/estado
// (consulta ligera para polling).
type EstadoResponse struct {
	ID               string `json:"id"`
	CodigoGeneracion string `json:"codigoGeneracion"`
	Estado           string `json:"estado"`
	SelloRecibido    string `json:"selloRecibido,omitempty"`
	Observaciones    string `json:"observaciones,omitempty"`
}

// TipoDTEResponse entrada del catálogo de tipos soportados.
type TipoDTEResponse struct {
	Codigo             string   `json:"codigo"`
	Nombre             string   `json:"nombre"`
	AplicaIVA          bool     `json:"aplicaIva"`
	AdmiteRetencion    bool     `json:"admiteRetencion"`
	TienePagoUniversal bool     `json:"tienePagoUniversal"`
	CamposResumen      []string `json:"camposResumen"`
}
