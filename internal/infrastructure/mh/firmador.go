// Package mh contiene los adaptadores hacia el Ministerio de Hacienda: el
// firmador de documentos y el transmisor de recepción. Ambos son simulados,
// pensados para el ambiente de pruebas ("00"): producen firmas y sellos con la
// forma correcta sin depender del servicio real.
package mh

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Firmador produce la firma electrónica de un DTE en formato JWS compacto
// (header.payload.firma), que es el formato en que MH recibe los documentos.
type Firmador struct {
	clavePrivada []byte
}

// NewFirmador construye el firmador con la clave del emisor. La clave no puede
// estar vacía: un JWS sin clave es indistinguible de un documento sin firmar.
func NewFirmador(clavePrivada string) (*Firmador, error) {
	if clavePrivada == "" {
		return nil, fmt.Errorf("firmador: clave privada vacía")
	}
	return &Firmador{clavePrivada: []byte(clavePrivada)}, nil
}

// Firmar serializa el documento y lo envuelve en un JWS compacto HS256.
func (f *Firmador) Firmar(documento map[string]any) (string, error) {
	payload, err := json.Marshal(documento)
	if err != nil {
		return "", fmt.Errorf("serializar documento a firmar: %w", err)
	}

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	cuerpo := base64.RawURLEncoding.EncodeToString(payload)
	entrada := header + "." + cuerpo

	mac := hmac.New(sha256.New, f.clavePrivada)
	mac.Write([]byte(entrada))
	firma := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return entrada + "." + firma, nil
}
