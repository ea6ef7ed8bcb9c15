package catalog

import (
	"errors"
	"fmt"

	"github.com/ifg/eventos-portal/internal/model"
)

// ErrJaInscrito recusa uma segunda inscrição ativa no mesmo evento.
var ErrJaInscrito = errors.New("Você já está inscrito neste evento!")

// ErrTransicaoInvalida indica ação incompatível com o estado atual.
var ErrTransicaoInvalida = errors.New("transição de inscrição inválida")

// Estado é a situação de um usuário em um evento.
type Estado string

const (
	EstadoNenhum    Estado = "NONE"
	EstadoAtiva     Estado = "ATIVA"
	EstadoCancelada Estado = "CANCELADA"
)

// Acao muda o estado da inscrição.
type Acao string

const (
	AcaoInscrever Acao = "inscrever"
	AcaoCancelar  Acao = "cancelar"
)

// EstadoDe deriva o estado a partir do histórico de inscrições do usuário.
func EstadoDe(inscricoes []model.Inscricao, eventoID int64) Estado {
	estado := EstadoNenhum
	for _, insc := range inscricoes {
		if insc.IDEvento() != eventoID {
			continue
		}
		if insc.Ativa() {
			return EstadoAtiva
		}
		estado = EstadoCancelada
	}
	return estado
}

// Transicao aplica uma ação. Reinscrever após cancelar é tratado como nova inscrição.
func Transicao(estado Estado, acao Acao) (Estado, error) {
	switch acao {
	case AcaoInscrever:
		if estado == EstadoNenhum || estado == EstadoCancelada {
			return EstadoAtiva, nil
		}
	case AcaoCancelar:
		if estado == EstadoAtiva {
			return EstadoCancelada, nil
		}
	}
	return estado, fmt.Errorf("%w: %s a partir de %s", ErrTransicaoInvalida, acao, estado)
}

// CheckDuplicate recusa a inscrição quando já existe uma ATIVA para o evento.
func CheckDuplicate(inscricoes []model.Inscricao, eventoID int64) error {
	if _, err := Transicao(EstadoDe(inscricoes, eventoID), AcaoInscrever); err != nil {
		return ErrJaInscrito
	}
	return nil
}

// InscricaoAtiva localiza a inscrição ativa de um evento.
func InscricaoAtiva(inscricoes []model.Inscricao, eventoID int64) (model.Inscricao, bool) {
	for _, insc := range inscricoes {
		if insc.Ativa() && insc.IDEvento() == eventoID {
			return insc, true
		}
	}
	return model.Inscricao{}, false
}

// Propria informa se a inscrição pertence à lista do usuário.
func Propria(inscricoes []model.Inscricao, inscricaoID int64) (model.Inscricao, bool) {
	for _, insc := range inscricoes {
		if insc.ID == inscricaoID {
			return insc, true
		}
	}
	return model.Inscricao{}, false
}
