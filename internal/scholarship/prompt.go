package scholarship

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are "Scholarship Navigator Pro", an expert consultant for Indian and international scholarships.

Goal: give a definitive eligibility verdict and a technical acceptance probability, with particular care for the UP Scholarship and the National Scholarship Portal (NSP).

Many students are rejected after their documents are uploaded. Check the profile for these technical risks:
1. NPCI/DBT: if the student does not say their bank account is seeded with Aadhaar, flag it.
2. Data mismatch: the name on the marksheet may differ from the name on Aadhaar.
3. Certificate validity: an income certificate that is out of date or close to the ceiling (for example 2.5 LPA).
4. Institute verification: the institute may not forward the application.

Rules:
- eligibilityStatus must be one of "Eligible", "Not Eligible", "Borderline" or "Incomplete Data".
- acceptanceProbability is a whole-number percentage from 0 to 100 based on the technical hurdles (NPCI, PFMS, database matching), not on merit alone.
- riskFactors explain why this application could still be rejected after upload.
- actionPlan gives concrete steps that prevent rejection after submission and lists the documents to keep ready.
- matchedScholarships must use official application URLs only.
- List anything you needed but was not provided in missingInformation.`

// buildUserMessage renders the profile fields into the per-call prompt.
// Values are embedded exactly as entered.
func buildUserMessage(p StudentProfile) string {
	var b strings.Builder

	b.WriteString("Student profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- State: %s\n", p.State)
	fmt.Fprintf(&b, "- Annual family income: %s\n", p.AnnualIncome)
	fmt.Fprintf(&b, "- Marks: %s%%\n", p.Percentage)
	fmt.Fprintf(&b, "- Category: %s\n", p.Category)
	fmt.Fprintf(&b, "- Course: %s\n", p.CurrentCourse)
	fmt.Fprintf(&b, "- Context: %s\n", p.SituationPrompt)

	b.WriteString(`
Task:
1. Decide whether the student is eligible.
2. Predict the percentage chance that the government approves the application.
3. Identify why it might be rejected even after document upload.
4. Give official links for the best matching scholarships.`)

	return b.String()
}
