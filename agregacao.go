package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/exp/slices"
)

// Nomes das colunas da planilha BDTD/CAPES.
const (
	campoEstado      = "Estado"
	campoTitulacao   = "Grau de Titulação"
	campoAno         = "Ano"
	campoDependencia = "Dependência Administrativa"
	// O espaço no final faz parte do nome da coluna na planilha original.
	campoGenero = "Gênero "
)

// chaveIndefinida agrupa os registros em que o campo não existe.
const chaveIndefinida = "undefined"

// EstadosNordeste lista as UFs da região Nordeste, na ordem em que aparecem no resumo.
var EstadosNordeste = []string{"BA", "PE", "CE", "MA", "PB", "RN", "AL", "SE", "PI"}

// Registro é uma linha da planilha: nome da coluna -> valor da célula.
type Registro map[string]any

// Agregado é a quantidade e o percentual de registros que compartilham uma mesma chave.
type Agregado struct {
	Chave      string `csv:"chave"`
	Quantidade int    `csv:"quantidade"`
	Percentual string `csv:"percentual"`
}

// Resumo reúne os totais gerais e as cinco distribuições calculadas sobre os registros do Nordeste.
type Resumo struct {
	TotalRegistros     int
	TotalNordeste      int
	PercentualNordeste string
	PorEstado          []Agregado
	PorTitulacao       []Agregado
	PorAno             []Agregado
	PorDependencia     []Agregado
	PorGenero          []Agregado
}

// MarshalJSON usa os nomes de campo consumidos pela apresentação
// ({estado|ano|nome, quantidade, percentual}).
func (r Resumo) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"totalRegistros":     r.TotalRegistros,
		"totalNordeste":      r.TotalNordeste,
		"percentualNordeste": r.PercentualNordeste,
	}
	for _, d := range Dimensoes {
		out[d.Nome] = d.linhas(r)
	}
	return json.Marshal(out)
}

// computeSummary executa o pipeline completo: filtro por região, as cinco agregações e os totais.
func computeSummary(registros []Registro) Resumo {
	nordeste := filtrarNordeste(registros)
	return Resumo{
		TotalRegistros:     len(registros),
		TotalNordeste:      len(nordeste),
		PercentualNordeste: percentual(len(nordeste), len(registros)),
		PorEstado:          agregarEstados(nordeste),
		PorTitulacao:       agregarPor(nordeste, chaveDe(campoTitulacao)),
		PorAno:             agregarAnos(nordeste),
		PorDependencia:     agregarPor(nordeste, chaveDe(campoDependencia)),
		PorGenero:          agregarPor(nordeste, chaveGenero),
	}
}

// filtrarNordeste mantém, na ordem original, os registros cujo Estado é uma UF do Nordeste.
func filtrarNordeste(registros []Registro) []Registro {
	var out []Registro
	for _, r := range registros {
		// Estado ausente ou que não é texto nunca pertence à região.
		if uf, ok := r[campoEstado].(string); ok && slices.Contains(EstadosNordeste, uf) {
			out = append(out, r)
		}
	}
	return out
}

func agregarPor(registros []Registro, chave func(Registro) string) []Agregado {
	c := novaContagem()
	for _, r := range registros {
		c.add(chave(r))
	}
	return c.agregados(len(registros))
}

// agregarEstados segue a ordem de EstadosNordeste e omite UFs sem registros.
func agregarEstados(registros []Registro) []Agregado {
	c := novaContagem()
	chave := chaveDe(campoEstado)
	for _, r := range registros {
		c.add(chave(r))
	}
	var out []Agregado
	for _, uf := range EstadosNordeste {
		if n := c.total[uf]; n > 0 {
			out = append(out, Agregado{Chave: uf, Quantidade: n, Percentual: percentual(n, len(registros))})
		}
	}
	return out
}

func agregarAnos(registros []Registro) []Agregado {
	anos := agregarPor(registros, chaveAno)
	slices.SortStableFunc(anos, func(a, b Agregado) bool { return anoAntes(a.Chave, b.Chave) })
	return anos
}

// anoAntes ordena chaves numéricas pelo valor e coloca as demais depois, em ordem lexicográfica.
func anoAntes(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

func chaveDe(campo string) func(Registro) string {
	return func(r Registro) string {
		v, ok := r[campo]
		return texto(v, ok)
	}
}

func chaveAno(r Registro) string {
	v, ok := r[campoAno]
	if t, isTime := v.(time.Time); isTime {
		return strconv.Itoa(t.Year())
	}
	return texto(v, ok)
}

func chaveGenero(r Registro) string {
	v, ok := r[campoGenero]
	if s, isStr := v.(string); isStr {
		return normalizarGenero(s)
	}
	return texto(v, ok)
}

// normalizarGenero troca os códigos F/M pelos rótulos usados nos gráficos.
// Qualquer outro valor é mantido como está.
func normalizarGenero(g string) string {
	switch g {
	case "F":
		return "Feminino"
	case "M":
		return "Masculino"
	default:
		return g
	}
}

// texto converte o valor de uma célula na chave de agrupamento.
func texto(v any, ok bool) string {
	if !ok {
		return chaveIndefinida
	}
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}
