package main

import (
	"context"

	"stress-index/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	knowledges := []sdk.NL2SQLKnowledgeCreateRequest{
		{Type: "glossary", Key: "stress index", Value: []string{"stress_summaries.financial_stress_index, a 0-100 score of a student's recent financial and emotional stress"}},
		{Type: "glossary", Key: "risk level", Value: []string{"stress_summaries.risk_level: High above 75, Medium above 40, otherwise Low"}},
		{Type: "glossary", Key: "money personality", Value: []string{"stress_summaries.money_personality, a behavioural label derived from score and unplanned spending"}},

		{Type: "synonyms", Key: "student/learner/user", Value: []string{"a student with a stress summary"}, AssociateTables: []string{"stress_summaries,user_id"}},
		{Type: "synonyms", Key: "university/school/campus/institution", Value: []string{"the student's institution"}, AssociateTables: []string{"stress_summaries,university_id"}},
		{Type: "synonyms", Key: "at risk/struggling", Value: []string{"students whose risk level is High or Medium"}, AssociateTables: []string{"stress_summaries,risk_level"}},

		{Type: "logic", Key: "students at risk have predicted_risk_window = 'Next 3 Days'", Value: []string{"risk window rule"}},
		{Type: "logic", Key: "institution views filter on university_id; rows with empty university_id are unaffiliated students", Value: []string{"institution filter"}},

		{Type: "case_library", Key: "which students at a university are high risk", Value: []string{"SELECT user_id, financial_stress_index FROM stress_summaries WHERE university_id = ? AND risk_level = 'High' ORDER BY financial_stress_index DESC"}},
		{Type: "case_library", Key: "average stress index per university", Value: []string{"SELECT university_id, AVG(financial_stress_index) FROM stress_summaries WHERE university_id != '' GROUP BY university_id"}},
		{Type: "case_library", Key: "how many stress spenders are there", Value: []string{"SELECT COUNT(*) FROM stress_summaries WHERE money_personality = 'Stress Spender'"}},
	}

	for _, k := range knowledges {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("knowledge: already exists, skipping", "type", k.Type, "key", k.Key)
				continue
			}
			return err
		}
		logger.Info("knowledge: created", "type", k.Type, "key", k.Key, "id", resp.ID)
	}
	return nil
}
