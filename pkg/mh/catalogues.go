// Package mh contiene catálogos y validaciones alineados a la normativa de
// Factura Electrónica del Ministerio de Hacienda de El Salvador (DTE).
package mh

// =============================================================================
// CAT-002 - Tipo de Documento Tributario Electrónico
// Códigos de los tipos de DTE soportados por el motor.
// =============================================================================

const (
	TipoFactura            = "01" // Factura (consumidor final)
	TipoCCF                = "03" // Comprobante de Crédito Fiscal
	TipoNotaRemision       = "04" // Nota de Remisión
	TipoNotaCredito        = "05" // Nota de Crédito
	TipoNotaDebito         = "06" // Nota de Débito
	TipoComprobanteRet     = "07" // Comprobante de Retención
	TipoComprobanteLiq     = "08" // Comprobante de Liquidación
	TipoDocContableLiq     = "09" // Documento Contable de Liquidación
	TipoFacturaExportacion = "11" // Factura de Exportación
	TipoFacturaSujetoExcl  = "14" // Factura de Sujeto Excluido
	TipoComprobanteDon     = "15" // Comprobante de Donación
)

// TiposDTEValidos contiene los códigos de tipo de DTE que el motor soporta.
var TiposDTEValidos = map[string]bool{
	TipoFactura: true, TipoCCF: true, TipoNotaRemision: true,
	TipoNotaCredito: true, TipoNotaDebito: true, TipoComprobanteRet: true,
	TipoComprobanteLiq: true, TipoDocContableLiq: true,
	TipoFacturaExportacion: true, TipoFacturaSujetoExcl: true,
	TipoComprobanteDon: true,
}

// =============================================================================
// CAT-015 - Tributos
// Códigos de tributo que el motor emite en la sección resumen.tributos.
// =============================================================================

const (
	TributoIVA        = "20" // Impuesto al Valor Agregado 13%
	TributoRetencion  = "D1" // Retención (IVA retenido / renta según tipo)
	TributoPercepcion = "D5" // Percepción 2% (documentos contables de liquidación)
)

// DescripcionesTributo descripción oficial por código de tributo.
var DescripcionesTributo = map[string]string{
	TributoIVA:        "Impuesto al Valor Agregado 13%",
	TributoRetencion:  "Retención",
	TributoPercepcion: "Percepción 2%",
}

// =============================================================================
// CAT-001 - Ambiente de destino
// =============================================================================

const (
	AmbientePruebas    = "00" // Pruebas / habilitación
	AmbienteProduccion = "01" // Producción
)

// =============================================================================
// CAT-016 - Condición de la operación
// =============================================================================

const (
	CondicionContado = 1 // Contado
	CondicionCredito = 2 // Crédito
	CondicionOtro    = 3 // Otro
)

// =============================================================================
// Estados de procesamiento ante el Ministerio de Hacienda.
// =============================================================================

const (
	EstadoBorrador        = "BORRADOR"         // Guardado, sin firmar
	EstadoFirmado         = "FIRMADO"          // JWS generado, pendiente de envío
	EstadoProcesado       = "PROCESADO"        // Aceptado por MH (o simulado en dev)
	EstadoRechazado       = "RECHAZADO"        // Rechazado por MH con observaciones
	EstadoErrorGeneracion = "ERROR_GENERACION" // Falló validación, firma o armado
)
