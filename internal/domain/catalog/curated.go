package catalog

import "github.com/okian/vocafit/internal/domain/instrument"

// Curated returns a fresh copy of the shipped category→career lists. Only
// RIASEC and Gardner categories list careers; GOPC is a scoring input only.
func Curated() Lists {
	return Lists{
		instrument.RIASEC: {
			instrument.Realistic: {
				"Engenheiro", "Mecânico", "Eletricista", "Técnico em Agropecuária",
				"Piloto de Avião", "Carpinteiro", "Técnico em Edificações", "Bombeiro",
			},
			instrument.Investigative: {
				"Cientista de Dados", "Médico", "Pesquisador", "Biólogo",
				"Químico", "Economista", "Engenheiro",
			},
			instrument.Artistic: {
				"Designer Gráfico", "Arquiteto", "Músico", "Ator",
				"Fotógrafo", "Escritor", "Publicitário",
			},
			instrument.Social: {
				"Psicólogo", "Professor", "Enfermeiro", "Assistente Social",
				"Fisioterapeuta", "Pedagogo", "Médico",
			},
			instrument.Enterprising: {
				"Administrador", "Advogado", "Empreendedor", "Gerente de Vendas",
				"Publicitário", "Relações Públicas", "Economista",
			},
			instrument.Conventional: {
				"Contador", "Analista Financeiro", "Auditor", "Secretário Executivo",
				"Bibliotecário", "Analista de Sistemas",
			},
		},
		instrument.Gardner: {
			instrument.Linguistic: {
				"Escritor", "Jornalista", "Advogado", "Tradutor", "Professor", "Relações Públicas",
			},
			instrument.Logical: {
				"Cientista de Dados", "Analista de Sistemas", "Contador", "Economista", "Engenheiro",
			},
			instrument.Spatial: {
				"Arquiteto", "Designer Gráfico", "Piloto de Avião", "Fotógrafo", "Designer de Interiores",
			},
			instrument.Kinesthetic: {
				"Educador Físico", "Fisioterapeuta", "Ator", "Bombeiro", "Dançarino", "Carpinteiro",
			},
			instrument.Musical: {
				"Músico", "Produtor Musical", "Regente", "Professor de Música", "Fonoaudiólogo",
			},
			instrument.Interpersonal: {
				"Psicólogo", "Gerente de Vendas", "Relações Públicas", "Assistente Social", "Professor", "Enfermeiro",
			},
			instrument.Intrapersonal: {
				"Escritor", "Psicólogo", "Filósofo", "Pesquisador", "Empreendedor",
			},
			instrument.Naturalist: {
				"Biólogo", "Veterinário", "Engenheiro Ambiental", "Técnico em Agropecuária", "Geólogo", "Oceanógrafo",
			},
			instrument.Existential: {
				"Filósofo", "Teólogo", "Psicólogo", "Sociólogo", "Historiador",
			},
		},
	}
}
