package knowledge

import "github.com/iei-diagnostic-server/internal/domain"

// Broad IEI diagnostic categories (IUIS 2024 classification).
const (
	CatCombinedID           domain.CategoryID = "Combined_ID"
	CatAntibodyDeficiency   domain.CategoryID = "Antibody_Deficiency"
	CatPhagocyteDefect      domain.CategoryID = "Phagocyte_Defect"
	CatComplementDeficiency domain.CategoryID = "Complement_Deficiency"
	CatAutoinflammatory     domain.CategoryID = "Autoinflammatory"
	CatImmuneDysregulation  domain.CategoryID = "Immune_Dysregulation"
	CatInnateImmunity       domain.CategoryID = "Innate_Immunity"
	CatBoneMarrowFailure    domain.CategoryID = "Bone_Marrow_Failure"
)

// NewIEIRegistry builds the built-in IEI knowledge base: eight broad
// categories, a curated question catalog with expert-derived conditional
// likelihoods, and the classic pathognomonic patterns.
//
// Priors are deliberately flattened for a specialized IEI clinic: the top
// three categories sit at equal footing so questions, not epidemiology, drive
// the diagnosis.
func NewIEIRegistry() (*Registry, error) {
	return NewRegistry(ieiCategories, ieiQuestions, ieiPatterns, ieiPriors)
}

var ieiCategories = []domain.Category{
	{ID: CatCombinedID, Name: "Combined Immunodeficiency"},
	{ID: CatAntibodyDeficiency, Name: "Antibody Deficiency"},
	{ID: CatPhagocyteDefect, Name: "Phagocyte Defect"},
	{ID: CatComplementDeficiency, Name: "Complement Deficiency"},
	{ID: CatAutoinflammatory, Name: "Autoinflammatory Disorder"},
	{ID: CatImmuneDysregulation, Name: "Immune Dysregulation"},
	{ID: CatInnateImmunity, Name: "Innate Immunity Defect"},
	{ID: CatBoneMarrowFailure, Name: "Bone Marrow Failure"},
}

var ieiPriors = domain.Distribution{
	CatAntibodyDeficiency:   0.15,
	CatCombinedID:           0.15,
	CatPhagocyteDefect:      0.15,
	CatImmuneDysregulation:  0.13,
	CatAutoinflammatory:     0.12,
	CatInnateImmunity:       0.12,
	CatComplementDeficiency: 0.10,
	CatBoneMarrowFailure:    0.08,
}

// yesNo expands per-category P(Yes|category) into full Yes/No likelihood rows.
func yesNo(yes map[domain.CategoryID]float64) map[domain.CategoryID]domain.AnswerLikelihoods {
	out := make(map[domain.CategoryID]domain.AnswerLikelihoods, len(yes))
	for cat, p := range yes {
		out[cat] = domain.AnswerLikelihoods{"Yes": p, "No": 1 - p}
	}
	return out
}

var ieiQuestions = []*domain.Question{
	{
		ID:      "Q1",
		Prompt:  "Age at onset?",
		Answers: []domain.Answer{"<6mo", "6mo-5yr", "5-12yr", "12+_years"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"<6mo": 0.60, "6mo-5yr": 0.30, "5-12yr": 0.07, "12+_years": 0.03},
			CatAntibodyDeficiency:   {"<6mo": 0.05, "6mo-5yr": 0.35, "5-12yr": 0.30, "12+_years": 0.30},
			CatPhagocyteDefect:      {"<6mo": 0.25, "6mo-5yr": 0.45, "5-12yr": 0.20, "12+_years": 0.10},
			CatComplementDeficiency: {"<6mo": 0.05, "6mo-5yr": 0.25, "5-12yr": 0.35, "12+_years": 0.35},
			CatAutoinflammatory:     {"<6mo": 0.10, "6mo-5yr": 0.40, "5-12yr": 0.30, "12+_years": 0.20},
			CatImmuneDysregulation:  {"<6mo": 0.20, "6mo-5yr": 0.40, "5-12yr": 0.25, "12+_years": 0.15},
			CatInnateImmunity:       {"<6mo": 0.25, "6mo-5yr": 0.45, "5-12yr": 0.20, "12+_years": 0.10},
			CatBoneMarrowFailure:    {"<6mo": 0.50, "6mo-5yr": 0.30, "5-12yr": 0.12, "12+_years": 0.08},
		},
		RelevanceWeight: 2.35,
		NodalWeight:     3.2,
	},
	{
		ID:      "Q2",
		Prompt:  "Bleeding tendency? (Petechiae, epistaxis, easy bruising, bloody diarrhea, melena)",
		Answers: []domain.Answer{"No", "Yes_mild", "Yes_severe"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"No": 0.55, "Yes_mild": 0.20, "Yes_severe": 0.25},
			CatAntibodyDeficiency:   {"No": 0.85, "Yes_mild": 0.12, "Yes_severe": 0.03},
			CatPhagocyteDefect:      {"No": 0.90, "Yes_mild": 0.08, "Yes_severe": 0.02},
			CatComplementDeficiency: {"No": 0.90, "Yes_mild": 0.08, "Yes_severe": 0.02},
			CatAutoinflammatory:     {"No": 0.92, "Yes_mild": 0.06, "Yes_severe": 0.02},
			CatImmuneDysregulation:  {"No": 0.65, "Yes_mild": 0.22, "Yes_severe": 0.13},
			CatInnateImmunity:       {"No": 0.93, "Yes_mild": 0.05, "Yes_severe": 0.02},
			CatBoneMarrowFailure:    {"No": 0.45, "Yes_mild": 0.25, "Yes_severe": 0.30},
		},
		RelevanceWeight: 0.88,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q3",
		Prompt:  "Recurrent infections?",
		Answers: []domain.Answer{"Yes_single_pathogen", "Yes_multiple_pathogens", "Non_infectious_manifestations"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"Yes_single_pathogen": 0.25, "Yes_multiple_pathogens": 0.65, "Non_infectious_manifestations": 0.10},
			CatAntibodyDeficiency:   {"Yes_single_pathogen": 0.30, "Yes_multiple_pathogens": 0.60, "Non_infectious_manifestations": 0.10},
			CatPhagocyteDefect:      {"Yes_single_pathogen": 0.45, "Yes_multiple_pathogens": 0.45, "Non_infectious_manifestations": 0.10},
			CatComplementDeficiency: {"Yes_single_pathogen": 0.55, "Yes_multiple_pathogens": 0.30, "Non_infectious_manifestations": 0.15},
			CatAutoinflammatory:     {"Yes_single_pathogen": 0.10, "Yes_multiple_pathogens": 0.10, "Non_infectious_manifestations": 0.80},
			CatImmuneDysregulation:  {"Yes_single_pathogen": 0.20, "Yes_multiple_pathogens": 0.35, "Non_infectious_manifestations": 0.45},
			CatInnateImmunity:       {"Yes_single_pathogen": 0.60, "Yes_multiple_pathogens": 0.30, "Non_infectious_manifestations": 0.10},
			CatBoneMarrowFailure:    {"Yes_single_pathogen": 0.35, "Yes_multiple_pathogens": 0.45, "Non_infectious_manifestations": 0.20},
		},
		RelevanceWeight: 0.92,
		NodalWeight:     2.5,
	},
	{
		ID:      "Q5",
		Prompt:  "Adverse reaction to live vaccine(s)? BCG, MMR, VZV, Polio",
		Answers: []domain.Answer{"No", "Yes_BCG", "Yes_Viral", "Yes_Multiple"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"No": 0.30, "Yes_BCG": 0.25, "Yes_Viral": 0.25, "Yes_Multiple": 0.20},
			CatAntibodyDeficiency:   {"No": 0.95, "Yes_BCG": 0.01, "Yes_Viral": 0.03, "Yes_Multiple": 0.01},
			CatPhagocyteDefect:      {"No": 0.90, "Yes_BCG": 0.08, "Yes_Viral": 0.01, "Yes_Multiple": 0.01},
			CatComplementDeficiency: {"No": 0.97, "Yes_BCG": 0.01, "Yes_Viral": 0.01, "Yes_Multiple": 0.01},
			CatAutoinflammatory:     {"No": 0.97, "Yes_BCG": 0.01, "Yes_Viral": 0.01, "Yes_Multiple": 0.01},
			CatImmuneDysregulation:  {"No": 0.85, "Yes_BCG": 0.05, "Yes_Viral": 0.07, "Yes_Multiple": 0.03},
			CatInnateImmunity:       {"No": 0.75, "Yes_BCG": 0.20, "Yes_Viral": 0.03, "Yes_Multiple": 0.02},
			CatBoneMarrowFailure:    {"No": 0.90, "Yes_BCG": 0.05, "Yes_Viral": 0.03, "Yes_Multiple": 0.02},
		},
		RelevanceWeight: 1.55,
		NodalWeight:     2.9,
	},
	{
		ID:      "Q6",
		Prompt:  "Sex of the patient?",
		Answers: []domain.Answer{"Male", "Female"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"Male": 0.65, "Female": 0.35},
			CatAntibodyDeficiency:   {"Male": 0.60, "Female": 0.40},
			CatPhagocyteDefect:      {"Male": 0.60, "Female": 0.40},
			CatComplementDeficiency: {"Male": 0.50, "Female": 0.50},
			CatAutoinflammatory:     {"Male": 0.50, "Female": 0.50},
			CatImmuneDysregulation:  {"Male": 0.55, "Female": 0.45},
			CatInnateImmunity:       {"Male": 0.50, "Female": 0.50},
			CatBoneMarrowFailure:    {"Male": 0.60, "Female": 0.40},
		},
		RelevanceWeight: 0.18,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q7",
		Prompt:  "History of eczema or rash?",
		Answers: []domain.Answer{"No", "Yes_mild", "Yes_severe"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"No": 0.35, "Yes_mild": 0.25, "Yes_severe": 0.40},
			CatAntibodyDeficiency:   {"No": 0.70, "Yes_mild": 0.25, "Yes_severe": 0.05},
			CatPhagocyteDefect:      {"No": 0.60, "Yes_mild": 0.25, "Yes_severe": 0.15},
			CatComplementDeficiency: {"No": 0.90, "Yes_mild": 0.08, "Yes_severe": 0.02},
			CatAutoinflammatory:     {"No": 0.85, "Yes_mild": 0.12, "Yes_severe": 0.03},
			CatImmuneDysregulation:  {"No": 0.45, "Yes_mild": 0.25, "Yes_severe": 0.30},
			CatInnateImmunity:       {"No": 0.70, "Yes_mild": 0.20, "Yes_severe": 0.10},
			CatBoneMarrowFailure:    {"No": 0.65, "Yes_mild": 0.20, "Yes_severe": 0.15},
		},
		RelevanceWeight: 0.98,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q8",
		Prompt:  "History of abscesses?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.25,
			CatAntibodyDeficiency:   0.15,
			CatPhagocyteDefect:      0.75,
			CatComplementDeficiency: 0.05,
			CatAutoinflammatory:     0.08,
			CatImmuneDysregulation:  0.10,
			CatInnateImmunity:       0.35,
			CatBoneMarrowFailure:    0.15,
		}),
		RelevanceWeight: 1.40,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q9",
		Prompt:  "Recurrent fever?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.15,
			CatAntibodyDeficiency:   0.20,
			CatPhagocyteDefect:      0.25,
			CatComplementDeficiency: 0.10,
			CatAutoinflammatory:     0.90,
			CatImmuneDysregulation:  0.45,
			CatInnateImmunity:       0.25,
			CatBoneMarrowFailure:    0.10,
		}),
		RelevanceWeight: 1.15,
		NodalWeight:     2.8,
	},
	{
		ID:      "Q10",
		Prompt:  "Chronic mucocutaneous candidiasis?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.25,
			CatAntibodyDeficiency:   0.05,
			CatPhagocyteDefect:      0.10,
			CatComplementDeficiency: 0.02,
			CatAutoinflammatory:     0.02,
			CatImmuneDysregulation:  0.35,
			CatInnateImmunity:       0.60,
			CatBoneMarrowFailure:    0.03,
		}),
		RelevanceWeight: 1.50,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q12",
		Prompt:  "Dysgammaglobulinemia?",
		Answers: []domain.Answer{"Normal", "Hypogammaglobulinemia", "Hypergammaglobulinemia", "Specific_Deficiency"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"Normal": 0.25, "Hypogammaglobulinemia": 0.55, "Hypergammaglobulinemia": 0.12, "Specific_Deficiency": 0.08},
			CatAntibodyDeficiency:   {"Normal": 0.05, "Hypogammaglobulinemia": 0.60, "Hypergammaglobulinemia": 0.05, "Specific_Deficiency": 0.30},
			CatPhagocyteDefect:      {"Normal": 0.80, "Hypogammaglobulinemia": 0.05, "Hypergammaglobulinemia": 0.10, "Specific_Deficiency": 0.05},
			CatComplementDeficiency: {"Normal": 0.90, "Hypogammaglobulinemia": 0.03, "Hypergammaglobulinemia": 0.04, "Specific_Deficiency": 0.03},
			CatAutoinflammatory:     {"Normal": 0.75, "Hypogammaglobulinemia": 0.03, "Hypergammaglobulinemia": 0.20, "Specific_Deficiency": 0.02},
			CatImmuneDysregulation:  {"Normal": 0.45, "Hypogammaglobulinemia": 0.30, "Hypergammaglobulinemia": 0.20, "Specific_Deficiency": 0.05},
			CatInnateImmunity:       {"Normal": 0.85, "Hypogammaglobulinemia": 0.06, "Hypergammaglobulinemia": 0.05, "Specific_Deficiency": 0.04},
			CatBoneMarrowFailure:    {"Normal": 0.70, "Hypogammaglobulinemia": 0.20, "Hypergammaglobulinemia": 0.05, "Specific_Deficiency": 0.05},
		},
		RelevanceWeight: 2.05,
		NodalWeight:     3.0,
	},
	{
		ID:      "Q15",
		Prompt:  "What is the PRIMARY type of pathogen causing infections?",
		Answers: []domain.Answer{"Fungi", "Bacteria", "Virus", "Mycobacteria", "Parasite", "None"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"Fungi": 0.20, "Bacteria": 0.25, "Virus": 0.40, "Mycobacteria": 0.05, "Parasite": 0.05, "None": 0.05},
			CatAntibodyDeficiency:   {"Fungi": 0.02, "Bacteria": 0.80, "Virus": 0.08, "Mycobacteria": 0.01, "Parasite": 0.04, "None": 0.05},
			CatPhagocyteDefect:      {"Fungi": 0.35, "Bacteria": 0.45, "Virus": 0.03, "Mycobacteria": 0.10, "Parasite": 0.02, "None": 0.05},
			CatComplementDeficiency: {"Fungi": 0.01, "Bacteria": 0.85, "Virus": 0.03, "Mycobacteria": 0.01, "Parasite": 0.02, "None": 0.08},
			CatAutoinflammatory:     {"Fungi": 0.01, "Bacteria": 0.10, "Virus": 0.03, "Mycobacteria": 0.01, "Parasite": 0.01, "None": 0.84},
			CatImmuneDysregulation:  {"Fungi": 0.05, "Bacteria": 0.20, "Virus": 0.25, "Mycobacteria": 0.03, "Parasite": 0.05, "None": 0.42},
			CatInnateImmunity:       {"Fungi": 0.25, "Bacteria": 0.15, "Virus": 0.25, "Mycobacteria": 0.30, "Parasite": 0.02, "None": 0.03},
			CatBoneMarrowFailure:    {"Fungi": 0.05, "Bacteria": 0.55, "Virus": 0.15, "Mycobacteria": 0.05, "Parasite": 0.02, "None": 0.18},
		},
		RelevanceWeight: 2.95,
		NodalWeight:     3.5,
	},
	{
		ID:      "Q17",
		Prompt:  "Cytopenias?",
		Answers: []domain.Answer{"None", "Thrombocytopenia", "Neutropenia", "Lymphopenia", "Multiple"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"None": 0.30, "Thrombocytopenia": 0.20, "Neutropenia": 0.05, "Lymphopenia": 0.35, "Multiple": 0.10},
			CatAntibodyDeficiency:   {"None": 0.80, "Thrombocytopenia": 0.10, "Neutropenia": 0.04, "Lymphopenia": 0.04, "Multiple": 0.02},
			CatPhagocyteDefect:      {"None": 0.55, "Thrombocytopenia": 0.02, "Neutropenia": 0.38, "Lymphopenia": 0.02, "Multiple": 0.03},
			CatComplementDeficiency: {"None": 0.94, "Thrombocytopenia": 0.02, "Neutropenia": 0.02, "Lymphopenia": 0.01, "Multiple": 0.01},
			CatAutoinflammatory:     {"None": 0.90, "Thrombocytopenia": 0.03, "Neutropenia": 0.04, "Lymphopenia": 0.01, "Multiple": 0.02},
			CatImmuneDysregulation:  {"None": 0.40, "Thrombocytopenia": 0.25, "Neutropenia": 0.10, "Lymphopenia": 0.10, "Multiple": 0.15},
			CatInnateImmunity:       {"None": 0.88, "Thrombocytopenia": 0.04, "Neutropenia": 0.04, "Lymphopenia": 0.02, "Multiple": 0.02},
			CatBoneMarrowFailure:    {"None": 0.15, "Thrombocytopenia": 0.20, "Neutropenia": 0.25, "Lymphopenia": 0.10, "Multiple": 0.30},
		},
		RelevanceWeight: 1.65,
		NodalWeight:     2.6,
	},
	{
		ID:      "Q20",
		Prompt:  "Dystrophic nails?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.30,
			CatAntibodyDeficiency:   0.03,
			CatPhagocyteDefect:      0.10,
			CatComplementDeficiency: 0.01,
			CatAutoinflammatory:     0.01,
			CatImmuneDysregulation:  0.08,
			CatInnateImmunity:       0.25,
			CatBoneMarrowFailure:    0.03,
		}),
		RelevanceWeight: 0.42,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q23",
		Prompt:  "Ataxia? Telangiectasia?",
		Answers: []domain.Answer{"No", "Yes_ataxia", "Yes_telangiectasia", "Yes_both"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"No": 0.93, "Yes_ataxia": 0.04, "Yes_telangiectasia": 0.02, "Yes_both": 0.01},
			CatAntibodyDeficiency:   {"No": 0.96, "Yes_ataxia": 0.02, "Yes_telangiectasia": 0.015, "Yes_both": 0.005},
			CatPhagocyteDefect:      {"No": 0.985, "Yes_ataxia": 0.01, "Yes_telangiectasia": 0.004, "Yes_both": 0.001},
			CatComplementDeficiency: {"No": 0.99, "Yes_ataxia": 0.005, "Yes_telangiectasia": 0.004, "Yes_both": 0.001},
			CatAutoinflammatory:     {"No": 0.99, "Yes_ataxia": 0.005, "Yes_telangiectasia": 0.004, "Yes_both": 0.001},
			CatImmuneDysregulation:  {"No": 0.70, "Yes_ataxia": 0.08, "Yes_telangiectasia": 0.07, "Yes_both": 0.15},
			CatInnateImmunity:       {"No": 0.985, "Yes_ataxia": 0.01, "Yes_telangiectasia": 0.004, "Yes_both": 0.001},
			CatBoneMarrowFailure:    {"No": 0.985, "Yes_ataxia": 0.01, "Yes_telangiectasia": 0.004, "Yes_both": 0.001},
		},
		RelevanceWeight: 0.52,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q24",
		Prompt:  "Bronchiectases?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.20,
			CatAntibodyDeficiency:   0.55,
			CatPhagocyteDefect:      0.30,
			CatComplementDeficiency: 0.05,
			CatAutoinflammatory:     0.03,
			CatImmuneDysregulation:  0.10,
			CatInnateImmunity:       0.10,
			CatBoneMarrowFailure:    0.03,
		}),
		RelevanceWeight: 0.98,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q27",
		Prompt:  "Autoimmunity? (Lupus, vasculitis, serum autoantibodies)",
		Answers: []domain.Answer{"No", "Yes_organ_specific", "Yes_systemic"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			CatCombinedID:           {"No": 0.75, "Yes_organ_specific": 0.15, "Yes_systemic": 0.10},
			CatAntibodyDeficiency:   {"No": 0.70, "Yes_organ_specific": 0.18, "Yes_systemic": 0.12},
			CatPhagocyteDefect:      {"No": 0.92, "Yes_organ_specific": 0.05, "Yes_systemic": 0.03},
			CatComplementDeficiency: {"No": 0.70, "Yes_organ_specific": 0.10, "Yes_systemic": 0.20},
			CatAutoinflammatory:     {"No": 0.75, "Yes_organ_specific": 0.10, "Yes_systemic": 0.15},
			CatImmuneDysregulation:  {"No": 0.25, "Yes_organ_specific": 0.45, "Yes_systemic": 0.30},
			CatInnateImmunity:       {"No": 0.90, "Yes_organ_specific": 0.07, "Yes_systemic": 0.03},
			CatBoneMarrowFailure:    {"No": 0.90, "Yes_organ_specific": 0.06, "Yes_systemic": 0.04},
		},
		RelevanceWeight: 0.92,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q31",
		Prompt:  "Inflammatory bowel disease?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.20,
			CatAntibodyDeficiency:   0.12,
			CatPhagocyteDefect:      0.04,
			CatComplementDeficiency: 0.01,
			CatAutoinflammatory:     0.10,
			CatImmuneDysregulation:  0.45,
			CatInnateImmunity:       0.05,
			CatBoneMarrowFailure:    0.01,
		}),
		RelevanceWeight: 0.78,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q33",
		Prompt:  "Absent thymic shadow? Hypoplastic thymus?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.60,
			CatAntibodyDeficiency:   0.01,
			CatPhagocyteDefect:      0.005,
			CatComplementDeficiency: 0.002,
			CatAutoinflammatory:     0.002,
			CatImmuneDysregulation:  0.04,
			CatInnateImmunity:       0.005,
			CatBoneMarrowFailure:    0.05,
		}),
		RelevanceWeight: 1.35,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q39",
		Prompt:  "Delayed umbilical stump detachment (>3 weeks)?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.03,
			CatAntibodyDeficiency:   0.005,
			CatPhagocyteDefect:      0.40,
			CatComplementDeficiency: 0.005,
			CatAutoinflammatory:     0.005,
			CatImmuneDysregulation:  0.005,
			CatInnateImmunity:       0.02,
			CatBoneMarrowFailure:    0.05,
		}),
		RelevanceWeight: 0.60,
		NodalWeight:     1.0,
	},
	{
		ID:      "Q45",
		Prompt:  "Granulomas?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: yesNo(map[domain.CategoryID]float64{
			CatCombinedID:           0.05,
			CatAntibodyDeficiency:   0.10,
			CatPhagocyteDefect:      0.55,
			CatComplementDeficiency: 0.01,
			CatAutoinflammatory:     0.20,
			CatImmuneDysregulation:  0.15,
			CatInnateImmunity:       0.08,
			CatBoneMarrowFailure:    0.01,
		}),
		RelevanceWeight: 0.75,
		NodalWeight:     1.0,
	},
}

var ieiPatterns = []*domain.Pattern{
	{
		ID:       "ataxia-telangiectasia",
		Name:     "Ataxia-Telangiectasia",
		Category: CatImmuneDysregulation,
		Conditions: []domain.PatternCondition{
			{Question: "Q23", Answer: "Yes_both"},
		},
		Confidence:  0.95,
		ConfirmWith: []domain.QuestionID{"Q27", "Q12"},
	},
	{
		ID:       "wiskott-aldrich",
		Name:     "Wiskott-Aldrich Syndrome",
		Category: CatCombinedID,
		Conditions: []domain.PatternCondition{
			{Question: "Q7", Answer: "Yes_severe"},
			{Question: "Q2", Answer: "Yes_severe"},
			{Question: "Q17", Answer: "Thrombocytopenia"},
		},
		Confidence:  0.90,
		ConfirmWith: []domain.QuestionID{"Q6", "Q15"},
	},
	{
		ID:       "lad-1",
		Name:     "LAD-1 (Leukocyte Adhesion Deficiency)",
		Category: CatPhagocyteDefect,
		Conditions: []domain.PatternCondition{
			{Question: "Q39", Answer: "Yes"},
		},
		Confidence:  0.85,
		ConfirmWith: []domain.QuestionID{"Q8", "Q17"},
	},
	{
		ID:       "cgd",
		Name:     "Chronic Granulomatous Disease",
		Category: CatPhagocyteDefect,
		Conditions: []domain.PatternCondition{
			{Question: "Q15", Answer: "Fungi"},
			{Question: "Q8", Answer: "Yes"},
			{Question: "Q45", Answer: "Yes"},
		},
		Confidence:  0.88,
		ConfirmWith: []domain.QuestionID{"Q6"},
	},
	{
		ID:       "scid",
		Name:     "SCID (Severe Combined Immunodeficiency)",
		Category: CatCombinedID,
		Conditions: []domain.PatternCondition{
			{Question: "Q1", Answer: "<6mo"},
			{Question: "Q5", Answer: "Yes_Multiple"},
			{Question: "Q33", Answer: "Yes"},
		},
		Confidence:  0.92,
		ConfirmWith: []domain.QuestionID{"Q15", "Q17"},
	},
	{
		ID:       "apeced",
		Name:     "APECED (APS-1)",
		Category: CatImmuneDysregulation,
		Conditions: []domain.PatternCondition{
			{Question: "Q10", Answer: "Yes"},
			{Question: "Q27", Answer: "Yes_organ_specific"},
			{Question: "Q31", Answer: "Yes"},
		},
		Confidence:  0.87,
		ConfirmWith: []domain.QuestionID{"Q1"},
	},
	{
		ID:       "hyper-ige",
		Name:     "Hyper-IgE Syndrome (STAT3)",
		Category: CatCombinedID,
		Conditions: []domain.PatternCondition{
			{Question: "Q7", Answer: "Yes_severe"},
			{Question: "Q8", Answer: "Yes"},
			{Question: "Q24", Answer: "Yes"},
		},
		Confidence:  0.86,
		ConfirmWith: []domain.QuestionID{"Q20"},
	},
}
