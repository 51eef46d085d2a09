package dte

import (
	"sort"

	"github.com/tu-usuario/dte-engine/internal/application/dto"
	domdte "github.com/tu-usuario/dte-engine/internal/domain/dte"
	"github.com/tu-usuario/dte-engine/internal/domain/entity"
	"github.com/tu-usuario/dte-engine/internal/domain/repository"
)

// ConsultarUseCase consultas de solo lectura sobre el historial de emisiones.
type ConsultarUseCase struct {
	repo repository.DTERepository
}

func NewConsultarUseCase(repo repository.DTERepository) *ConsultarUseCase {
	return &ConsultarUseCase{repo: repo}
}

// ObtenerPorID devuelve el documento completo.
func (uc *ConsultarUseCase) ObtenerPorID(id string) (*dto.DTEResponse, error) {
	registro, err := uc.repo.ObtenerPorID(id)
	if err != nil {
		return nil, err
	}
	return dteResponse(registro), nil
}

// Estado devuelve solo los campos de procesamiento (consulta ligera para polling).
func (uc *ConsultarUseCase) Estado(id string) (*dto.EstadoResponse, error) {
	registro, err := uc.repo.ObtenerPorID(id)
	if err != nil {
		return nil, err
	}
	return &dto.EstadoResponse{
		ID:               registro.ID,
		CodigoGeneracion: registro.CodigoGeneracion,
		Estado:           registro.Estado,
		SelloRecibido:    registro.SelloRecibido,
		Observaciones:    registro.Observaciones,
	}, nil
}

// Listar devuelve las emisiones más recientes.
func (uc *ConsultarUseCase) Listar(limite int) ([]*dto.DTEResponse, error) {
	registros, err := uc.repo.Listar(limite)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DTEResponse, 0, len(registros))
	for _, r := range registros {
		out = append(out, dteResponse(r))
	}
	return out, nil
}

// TiposDTE devuelve el catálogo de tipos soportados con sus reglas visibles.
func (uc *ConsultarUseCase) TiposDTE() []dto.TipoDTEResponse {
	reglas := domdte.TiposRegistrados()
	out := make([]dto.TipoDTEResponse, 0, len(reglas))
	for _, regla := range reglas {
		campos := make([]string, 0, len(regla.CamposRequeridos))
		for campo := range regla.CamposRequeridos {
			campos = append(campos, campo)
		}
		sort.Strings(campos)
		out = append(out, dto.TipoDTEResponse{
			Codigo:             regla.Codigo,
			Nombre:             regla.Nombre,
			AplicaIVA:          regla.IVA.Aplica,
			AdmiteRetencion:    regla.Retencion.Aplica,
			TienePagoUniversal: regla.TienePagoUniversal,
			CamposResumen:      campos,
		})
	}
	return out
}

func dteResponse(r *entity.DTE) *dto.DTEResponse {
	return &dto.DTEResponse{
		ID:               r.ID,
		CodigoGeneracion: r.CodigoGeneracion,
		TipoDTE:          r.TipoDTE,
		NumeroControl:    r.NumeroControl,
		FecEmi:           r.FecEmi.Format("2006-01-02"),
		VentasNetas:      r.VentasNetas,
		IVA:              r.IVA,
		Retencion:        r.Retencion,
		MontoTotal:       r.MontoTotal,
		Estado:           r.Estado,
		SelloRecibido:    r.SelloRecibido,
		Observaciones:    r.Observaciones,
	}
}
