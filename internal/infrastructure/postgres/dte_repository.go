package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/dte-engine/internal/domain"
	"github.com/tu-usuario/dte-engine/internal/domain/entity"
	"github.com/tu-usuario/dte-engine/internal/domain/repository"
)

var _ repository.DTERepository = (*DTERepo)(nil)

// DTERepo implementación de DTERepository sobre PostgreSQL (usable con pool o tx).
type DTERepo struct {
	q Querier
}

// NewDTERepository construye el adaptador. Pasar pool o tx (Querier).
func NewDTERepository(q Querier) *DTERepo {
	return &DTERepo{q: q}
}

const columnasDTE = `id, codigo_generacion, tipo_dte, numero_control, fec_emi,
	       ventas_netas, iva, retencion, monto_total,
	       estado, COALESCE(sello_recibido, ''), COALESCE(observaciones, ''), documento_json,
	       created_at, updated_at`

// Guardar persiste un documento nuevo. El código de generación es único: un
// duplicado es ErrDuplicado, no un error de infraestructura.
func (r *DTERepo) Guardar(dte *entity.DTE) error {
	if dte.ID == "" {
		dte.ID = uuid.New().String()
	}
	query := `
		INSERT INTO dte_emitidos (id, codigo_generacion, tipo_dte, numero_control, fec_emi,
		                          ventas_netas, iva, retencion, monto_total,
		                          estado, sello_recibido, observaciones, documento_json,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		dte.ID, dte.CodigoGeneracion, dte.TipoDTE, dte.NumeroControl, dte.FecEmi,
		dte.VentasNetas, dte.IVA, dte.Retencion, dte.MontoTotal,
		dte.Estado, nullIfEmpty(dte.SelloRecibido), nullIfEmpty(dte.Observaciones), dte.DocumentoJSON,
		dte.CreatedAt, dte.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de generación %s", domain.ErrDuplicado, dte.CodigoGeneracion)
		}
		return fmt.Errorf("insert dte: %w", err)
	}
	return nil
}

// Actualizar persiste los campos que cambian durante el ciclo de emisión
// (estado, sello, observaciones, documento firmado).
func (r *DTERepo) Actualizar(dte *entity.DTE) error {
	query := `
		UPDATE dte_emitidos
		SET estado         = $2,
		    sello_recibido = COALESCE($3, sello_recibido),
		    observaciones  = COALESCE($4, observaciones),
		    documento_json = $5,
		    updated_at     = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		dte.ID, dte.Estado, nullIfEmpty(dte.SelloRecibido), nullIfEmpty(dte.Observaciones),
		dte.DocumentoJSON, dte.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update dte: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: dte %s", domain.ErrNoEncontrado, dte.ID)
	}
	return nil
}

// ObtenerPorID obtiene un documento por su ID interno.
func (r *DTERepo) ObtenerPorID(id string) (*entity.DTE, error) {
	query := `SELECT ` + columnasDTE + ` FROM dte_emitidos WHERE id = $1`
	return r.escanearUno(r.q.QueryRow(context.Background(), query, id), id)
}

// ObtenerPorCodigoGeneracion obtiene un documento por su UUID ante MH.
func (r *DTERepo) ObtenerPorCodigoGeneracion(codigo string) (*entity.DTE, error) {
	query := `SELECT ` + columnasDTE + ` FROM dte_emitidos WHERE codigo_generacion = $1`
	return r.escanearUno(r.q.QueryRow(context.Background(), query, codigo), codigo)
}

// Listar devuelve los documentos más recientes primero.
func (r *DTERepo) Listar(limite int) ([]*entity.DTE, error) {
	if limite <= 0 || limite > 500 {
		limite = 100
	}
	query := `SELECT ` + columnasDTE + ` FROM dte_emitidos ORDER BY created_at DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limite)
	if err != nil {
		return nil, fmt.Errorf("list dte: %w", err)
	}
	defer rows.Close()

	var list []*entity.DTE
	for rows.Next() {
		var d entity.DTE
		if err := rows.Scan(
			&d.ID, &d.CodigoGeneracion, &d.TipoDTE, &d.NumeroControl, &d.FecEmi,
			&d.VentasNetas, &d.IVA, &d.Retencion, &d.MontoTotal,
			&d.Estado, &d.SelloRecibido, &d.Observaciones, &d.DocumentoJSON,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dte: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *DTERepo) escanearUno(row pgx.Row, clave string) (*entity.DTE, error) {
	var d entity.DTE
	err := row.Scan(
		&d.ID, &d.CodigoGeneracion, &d.TipoDTE, &d.NumeroControl, &d.FecEmi,
		&d.VentasNetas, &d.IVA, &d.Retencion, &d.MontoTotal,
		&d.Estado, &d.SelloRecibido, &d.Observaciones, &d.DocumentoJSON,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: dte %s", domain.ErrNoEncontrado, clave)
		}
		return nil, fmt.Errorf("get dte: %w", err)
	}
	return &d, nil
}
