package models

// Table nomeia uma das tabelas de resultado derivadas da tabela "sinan".
type Table string

const (
	NotificationsInfo Table = "notifications_info"
	PersonalData      Table = "personal_data"
	ClinicalSigns     Table = "clinical_signs"
	PatientDiseases   Table = "patient_diseases"
	Exams             Table = "exams"
	HospitalInfo      Table = "hospital_info"
	AlarmsSeverities  Table = "alarms_severities"
	SinanInternalInfo Table = "sinan_internal_info"
)

// RawTable é a tabela que recebe os arquivos parquet sem tratamento.
const RawTable = "sinan"

// Tables lista as tabelas de resultado na ordem em que são criadas.
var Tables = []Table{
	NotificationsInfo,
	PersonalData,
	ClinicalSigns,
	PatientDiseases,
	Exams,
	HospitalInfo,
	AlarmsSeverities,
	SinanInternalInfo,
}

// Fields guarda, por tabela, os códigos originais dos campos do SINAN.
// O nome final de cada coluna depende do mapeamento do idioma em uso.
var Fields = map[Table][]string{
	NotificationsInfo: {
		"TP_NOT", "ID_AGRAVO", "DT_NOTIFIC", "SEM_NOT", "NU_ANO", "SG_UF_NOT",
		"ID_MUNICIP", "ID_REGIONA", "ID_UNIDADE", "DT_SIN_PRI", "SEM_PRI",
		"DT_INVEST", "CLASSI_FIN", "CRITERIO", "EVOLUCAO", "DT_OBITO", "DT_ENCERRA",
	},
	PersonalData: {
		"ANO_NASC", "NU_IDADE_N", "CS_SEXO", "CS_GESTANT", "CS_RACA", "CS_ESCOL_N",
		"SG_UF", "ID_MN_RESI", "ID_RG_RESI", "ID_PAIS", "ID_OCUPA_N",
	},
	ClinicalSigns: {
		"FEBRE", "MIALGIA", "CEFALEIA", "EXANTEMA", "VOMITO", "NAUSEA",
		"DOR_COSTAS", "CONJUNTVIT", "ARTRITE", "ARTRALGIA", "PETEQUIA_N",
		"LEUCOPENIA", "LACO", "DOR_RETRO", "CLINC_CHIK",
	},
	PatientDiseases: {
		"DIABETES", "HEMATOLOG", "HEPATOPAT", "RENAL", "HIPERTENSA",
		"ACIDO_PEPT", "AUTO_IMUNE",
	},
	Exams: {
		"DT_CHIK_S1", "DT_CHIK_S2", "DT_PRNT", "RES_CHIKS1", "RES_CHIKS2",
		"RESUL_PRNT", "DT_SORO", "RESUL_SORO", "DT_NS1", "RESUL_NS1", "DT_VIRAL",
		"RESUL_VI_N", "DT_PCR", "RESUL_PCR_", "SOROTIPO", "HISTOPA_N", "IMUNOH_N",
	},
	HospitalInfo: {
		"HOSPITALIZ", "DT_INTERNA", "UF", "MUNICIPIO", "TPAUTOCTO", "COUFINF",
		"COPAISINF", "COMUNINF", "DOENCA_TRA",
	},
	AlarmsSeverities: {
		"ALRM_HIPOT", "ALRM_PLAQ", "ALRM_VOM", "ALRM_SANG", "ALRM_HEMAT",
		"ALRM_ABDOM", "ALRM_LETAR", "ALRM_HEPAT", "ALRM_LIQ", "DT_ALRM",
		"GRAV_PULSO", "GRAV_CONV", "GRAV_ENCH", "GRAV_INSUF", "GRAV_TAQUI",
		"GRAV_EXTRE", "GRAV_HIPOT", "GRAV_HEMAT", "GRAV_MELEN", "GRAV_METRO",
		"GRAV_SANG", "GRAV_AST", "GRAV_MIOC", "GRAV_CONSC", "GRAV_ORGAO",
		"DT_GRAV", "MANI_HEMOR", "EPISTAXE", "GENGIVO", "METRO", "PETEQUIAS",
		"HEMATURA", "SANGRAM", "LACO_N", "PLASMATICO", "EVIDENCIA",
		"PLAQ_MENOR", "CON_FHD", "COMPLICA",
	},
	SinanInternalInfo: {
		"TP_SISTEMA", "NDUPLIC_N", "DT_DIGITA", "CS_FLXRET", "FLXRECEBI", "MIGRADO_W",
	},
}

func (t Table) Valid() bool {
	_, ok := Fields[t]
	return ok
}
