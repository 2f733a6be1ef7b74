package generator

import (
	"fmt"
	"strings"
)

// NamedText pairs a logical input name with its extracted text.
type NamedText struct {
	Name string
	Text string
}

// Inputs carries the extracted text of every input document, keyed by role.
type Inputs struct {
	// Transcript is the session transcript text.
	Transcript string
	// Intake is the intake form results text.
	Intake string
	// TestResults holds the eight test-result texts in presentation order.
	TestResults []NamedText
	// AllTexts holds every extracted input text in slot order.
	AllTexts []NamedText
}

// SectionSpec describes one generated section group: its fixed role-setting
// instruction, its output length bound, and how its user prompt is built from
// the input texts and the accumulated text of all previously generated groups.
type SectionSpec struct {
	ID        string
	System    string
	MaxTokens int
	Prompt    func(in Inputs, prior string) string
}

// SectionSpecs lists every section group in generation order. The order is
// load-bearing: the last three groups embed the accumulated text of the
// groups before them.
var SectionSpecs = []SectionSpec{
	{
		ID:        "sections_1_3",
		System:    "You are a highly skilled psychologist tasked with generating Sections I, II, and III of a Psychological Assessment Report based on provided information. Use markdown formatting for headers and bullet points.",
		MaxTokens: 1000,
		Prompt: func(in Inputs, _ string) string {
			return fmt.Sprintf(`Based on the following intake form and transcript, generate Sections I, II, and III of the Psychological Assessment Report (PAR). Use markdown formatting for headers and bullet points.

## I. Patient Identification and Reason for Referral
- Include patient's name, date of birth, home address, and physical location during remote assessment.
- State the reason for referral, including age, presenting concerns, and who conducted the evaluation.

## II. Informed Consent and Assessment Scope
- Summarize the informed consent process, including details provided and agreed upon.
- Outline the assessment scope, including domains covered and reasons for selecting specific assessments.

## III. Collateral Information
- List individuals providing information and assessments used.

Use professional language appropriate for a psychological assessment report.

Intake Form:
%s

Transcript:
%s`, in.Intake, in.Transcript)
		},
	},
	{
		ID:        "section_4",
		System:    "You are a highly skilled psychologist tasked with generating the Background Information section of a Psychological Assessment Report based on provided information.",
		MaxTokens: 2000,
		Prompt: func(in Inputs, _ string) string {
			return fmt.Sprintf(`Using the following intake form and transcript, generate Section IV (Background Information) of the Psychological Assessment Report. Include detailed information in the following subsections:

IV. Background Information

Family History and Composition:
- Provide detailed information about the patient's family, including parental background, family medical and psychiatric history, and current household composition.

Developmental History:
- Outline developmental milestones, any delays, and early signs of atypical neurodevelopment.

Educational/Occupational History:
- Describe the patient's educational journey, academic achievements, and occupational history, including any challenges faced.

Medical and Psychiatric History:
- Detail medical conditions, psychiatric diagnoses, treatments received, medications, and sensory sensitivities.

Use professional language and ensure the content aligns with the structure provided.

Intake Form:
%s

Transcript:
%s`, in.Intake, in.Transcript)
		},
	},
	{
		ID:        "section_5",
		System:    "You are a highly skilled psychologist tasked with generating the Assessment Measures section of a Psychological Assessment Report based on provided test results. Use markdown formatting for headers and bullet points.",
		MaxTokens: 3000,
		Prompt: func(in Inputs, _ string) string {
			return fmt.Sprintf(`Based on the following test results, generate Section V (Assessment Measures) of the Psychological Assessment Report. Use markdown formatting for headers and bullet points. For each assessment, include:

- A brief description of the assessment's purpose.
- The patient's scores and percentiles.
- An interpretation of the results.

Ensure to cover the following assessments:

- Vineland Adaptive Behavior Scales, Third Edition (Vineland-3)
- Social Responsiveness Scale, Second Edition (SRS-2)
- Gilliam Autism Rating Scale, Third Edition (GARS-3)
- Brief Observation of Symptoms of Autism (BOSA-F2)
- Generalized Anxiety Disorder 7-item (GAD-7) Scale
- Ritvo Autism Asperger Diagnostic Scale-Revised (RAADS-R)
- Kaufman Brief Intelligence Test, Second Edition (KBIT-2)
- Camouflaging Autistic Traits Questionnaire (CAT-Q)

Use professional language and align with the structure provided.

%s`, combineResults(in.TestResults))
		},
	},
	{
		ID:        "sections_6_7",
		System:    "You are a highly skilled psychologist tasked with generating the Behavioral Observations and Mental Status Examination sections of a Psychological Assessment Report based on provided information.",
		MaxTokens: 2000,
		Prompt: func(in Inputs, _ string) string {
			return fmt.Sprintf(`Using the following intake form and transcript, generate Sections VI and VII of the Psychological Assessment Report.

VI. Behavioral Observations
- Describe observed behaviors consistent with assessment data.
- Provide specific examples illustrating social avoidance, adaptive strategies, and any notable behaviors.

VII. Mental Status Examination
- General Appearance
- Behavior
- Speech
- Mood and Affect
- Cognition
- Sensory Processing

Use professional language and ensure the content aligns with the structure provided.

Intake Form:
%s

Transcript:
%s`, in.Intake, in.Transcript)
		},
	},
	{
		ID:        "section_8",
		System:    "You are a highly skilled psychologist tasked with interpreting assessment results for a Psychological Assessment Report.",
		MaxTokens: 3000,
		Prompt: func(in Inputs, _ string) string {
			return fmt.Sprintf(`Based on the following test results, generate Section VIII (Interpretation) of the Psychological Assessment Report. Provide:

- An interpretation of each assessment result.
- A synthesis that integrates findings across assessments.
- Discuss how the results relate to the patient's functioning.

Use professional language and ensure the content aligns with the structure provided.

%s`, combineResults(in.TestResults))
		},
	},
	{
		ID:        "sections_9_11",
		System:    "You are a highly skilled psychologist tasked with generating DSM-5 Criteria Analysis, Strengths and Challenges, and Risk and Protective Factors sections of a Psychological Assessment Report based on provided information.",
		MaxTokens: 3000,
		Prompt: func(in Inputs, _ string) string {
			return fmt.Sprintf(`Based on all the provided information, generate Sections IX, X, and XI of the Psychological Assessment Report.

IX. DSM-5 Criteria for Autism Spectrum Disorder
- Match the patient's symptoms to DSM-5 criteria for ASD.
- Provide specific examples and assessment data supporting each criterion.

X. Strengths and Challenges
- List the patient's strengths, leveraging assessment data.
- Outline challenges, including social communication and emotional regulation.

XI. Risk and Protective Factors
- Identify risk factors impacting prognosis.
- Highlight protective factors that can aid in intervention.

Use professional language and ensure the content aligns with the structure provided.

%s`, combineAll(in.AllTexts))
		},
	},
	{
		ID:        "sections_12_14",
		System:    "You are a highly skilled psychologist tasked with generating Recommendations, Prognosis, and Follow-Up Plan sections of a Psychological Assessment Report based on previous sections.",
		MaxTokens: 3000,
		Prompt: func(_ Inputs, prior string) string {
			return fmt.Sprintf(`Based on the following sections of the report, generate Sections XII, XIII, and XIV of the Psychological Assessment Report.

XII. Recommendations
- Provide specific, actionable recommendations for interventions.
- Include therapies, support services, and strategies.

XIII. Prognosis
- Discuss the patient's prognosis with and without intervention.
- Consider risk and protective factors.

XIV. Follow-Up Plan
- Outline goals, objectives, and strategies.
- Include timelines for re-evaluation.

Use professional language and ensure the content aligns with the structure provided.

Previous Sections:
%s`, prior)
		},
	},
	{
		ID:        "section_15",
		System:    "You are a highly skilled psychologist tasked with summarizing a Psychological Assessment Report based on previous sections.",
		MaxTokens: 2000,
		Prompt: func(_ Inputs, prior string) string {
			return fmt.Sprintf(`Based on the following sections of the report, generate Section XV (Interpretative Summary) of the Psychological Assessment Report. Provide:

- A concise summary of findings.
- Highlight key strengths and challenges.
- Summarize recommendations.

Use professional language and ensure the content aligns with the structure provided.

Previous Sections:
%s`, prior)
		},
	},
	{
		ID:        "section_16",
		System:    "You are a highly skilled psychologist tasked with providing the Diagnosis and Resources sections of a Psychological Assessment Report based on all provided information.",
		MaxTokens: 3000,
		Prompt: func(in Inputs, prior string) string {
			return fmt.Sprintf(`Based on all the information from the files and the previous sections of the report, generate Section XVI (Diagnosis and Resources) of the Psychological Assessment Report.

- Provide the primary and secondary diagnoses with justification based on DSM-5 criteria.
- List resources for the patient, including local services, support groups, and therapy options.

Use professional language and ensure the content aligns with the structure provided.

All Files Text:
%s

Previous Sections:
%s`, combineAll(in.AllTexts), prior)
		},
	},
}

// combineResults joins the test-result texts with their names, each block
// labeled "{name} Results:".
func combineResults(results []NamedText) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("%s Results:\n%s", r.Name, r.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// combineAll joins every extracted text with its name.
func combineAll(texts []NamedText) string {
	blocks := make([]string, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, fmt.Sprintf("%s:\n%s", t.Name, t.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// CoverText returns the static cover block of every report.
func CoverText() string {
	return `CONFIDENTIAL Psychological Assessment Report

Patient's Name:
Date of Report:
Examiner: Joshua M. Henderson, PhD

CONFIDENTIAL DOCUMENT

This document contains confidential and privileged information intended only for the individual named above. If you are not the intended recipient, please notify the sender immediately and delete this document. Any unauthorized review, use, disclosure, or distribution is prohibited.`
}

// TOCText returns the static table-of-contents block of every report.
func TOCText() string {
	return `Table of Contents

1. Patient Identification and Referral Information
2. Informed Consent
3. Collaterals Involved
4. Background Information
   a. Family History and Composition
   b. Developmental History
   c. Educational History
   d. Medical and Psychiatric History
5. Assessment Procedures and Results
6. Behavioral Observations
7. Documentation of Validity Challenges
8. Mental Status Examination (MSE)
9. DSM-5 Diagnostic Criteria for Autism Spectrum Disorder
10. Strengths and Challenges
11. Risk and Protective Factors
12. Recommendations
13. Prognosis
14. Follow-Up Plan
15. Interpretive Summary
16. Conclusion
17. Resources
18. References
19. DSM-5 Diagnostic Criteria Table`
}
