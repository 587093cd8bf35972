// Package extraction builds prompts for, and decodes output from, the LLM
// shipment extractor. The extractor itself lives in provider subpackages.
package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"tunadex/internal/domain"
	"tunadex/internal/port"
)

// SystemPrompt instructs the model on the extraction task, the vocabulary,
// and the output contract.
const SystemPrompt = `You are a seafood shipment data extraction agent for a wholesale fish distributor.

Your job is to extract structured shipment data from emails and their attachments.

KEY DATA POINTS TO EXTRACT:
- AWB (Air Way Bill): This is the PRIMARY identifier. Usually an 11-digit number (format: XXX-XXXX-XXXX or XXXXXXXXXXX). Every shipment should have one.
- Customer name and company
- Species of fish
- Box count
- Weight in pounds (lbs)
- Size category (for species like Yellowtail: "3/4-1 lbs", "1-2 lbs", "2-4 lbs")
- Count per box (number of fish per box, e.g., "4 count markers")
- Supplier: "Victor" (Victor D'ascola) or "Norman" (Norman's Airfreight)

COMMON SPECIES (match loosely, normalize spelling):
Swordfish, Yellowtail, Black Grouper, Yellowfin Tuna, Bigeye Tuna, Albacore Tuna, Salmon, Red Snapper, Yellowtail Snapper, Mutton Snapper, Tilefish, Opah, Mahi Mahi, Wahoo, Cobia, Striped Bass

KNOWN CUSTOMERS (contact name -> company, match loosely):
Mark -> Mark's Seafood
Chade -> Lockwood-Winant
Bryan -> Gosman's Fish Market
Richie, Amos -> Congressional
Joseph -> Samuels Seafood
Robby -> Great Eastern
Mike, Bob -> BST Seafood
Manny -> Stavis
Tom, James, John -> Emerald Seafood
Vinny -> BA Seafood
Any new name with volume details should be treated as a regular customer.

CRITICAL RULES:
1. NEVER fabricate data. If information is missing or unclear, set the field to null and add a note explaining what's missing.
2. AWB is required for every shipment. If you can't find an AWB, create a shipment entry with awb="MISSING" and flag it as an anomaly.
3. Watch for DOUBLE COUNTING: The same AWB appearing in multiple emails means it's the SAME shipment, not two separate ones. Merge them.
4. Watch for MISSING PAPERWORK: If an email references a shipment but has no attachment or details, flag it as an anomaly.
5. Do NOT extract or track pricing/cost information, skip any dollar amounts.
6. Weights must be in pounds (lbs). If given in kg, convert (1 kg = 2.205 lbs).
7. Each shipment line should represent one species going to one customer.

OUTPUT: Return valid JSON with this structure:
{
  "shipments": [
    {
      "awb": "string (11 digits or MISSING)",
      "date": "YYYY-MM-DD",
      "supplier": "Victor or Norman",
      "freight_forwarder": "string or null",
      "lines": [
        {
          "customer_name": "string",
          "company": "string or null",
          "species": "string",
          "boxes": int or null,
          "weight_lbs": float or null,
          "size_category": "string or null",
          "count_per_box": int or null,
          "notes": "string or null"
        }
      ]
    }
  ],
  "anomalies": [
    {
      "anomaly_type": "DOUBLE_COUNT | MISSING_PAPERWORK | AWB_MISMATCH | MISSING_AWB | MISSING_DATA",
      "severity": "WARNING | ERROR",
      "description": "string",
      "related_awb": "string or null"
    }
  ]
}
`

const attachmentTextLimit = 10000

// BuildUserPrompt renders the batch of emails, their attachment text, the
// regex first-pass hints, and dedup context into the extraction prompt.
func BuildUserPrompt(input port.ExtractInput) (string, error) {
	var blocks []string
	for i := range input.Emails {
		em := &input.Emails[i]

		attText := input.AttachmentTexts[em.MessageID]
		if attText == "" {
			attText = "No attachments"
		}
		if len(attText) > attachmentTextLimit {
			attText = attText[:attachmentTextLimit]
		}

		body := em.BodyText
		if body == "" {
			body = "(no plain text body, see HTML)"
		}

		emailDate := "unknown"
		if em.Date != nil {
			emailDate = em.Date.Format("2006-01-02T15:04:05Z07:00")
		}

		var b strings.Builder
		fmt.Fprintf(&b, "=== EMAIL %d ===\n", i+1)
		fmt.Fprintf(&b, "From: %s\n", em.Sender)
		fmt.Fprintf(&b, "Subject: %s\n", em.Subject)
		fmt.Fprintf(&b, "Date: %s\n", emailDate)
		if hints, ok := input.Hints[em.MessageID]; ok {
			hintJSON, err := json.Marshal(hints)
			if err != nil {
				return "", fmt.Errorf("marshaling first-pass hints: %w", err)
			}
			fmt.Fprintf(&b, "Regex first-pass hints (low confidence): %s\n", hintJSON)
		}
		fmt.Fprintf(&b, "\nBODY:\n%s\n\nATTACHMENTS:\n%s", body, attText)
		blocks = append(blocks, b.String())
	}

	existingJSON := "None"
	if len(input.ExistingShipments) > 0 {
		raw, err := json.MarshalIndent(input.ExistingShipments, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling existing shipments: %w", err)
		}
		existingJSON = string(raw)
	}

	prompt := fmt.Sprintf(`Process the following email(s) received on %s.

%s

---
PREVIOUSLY EXTRACTED SHIPMENTS TODAY (for deduplication, do NOT re-extract these):
%s

Extract all NEW shipment data and return structured JSON.
Flag any anomalies (double counts, missing data, mismatched AWBs).
`, input.TargetDate, strings.Join(blocks, "\n\n"), existingJSON)

	return prompt, nil
}

// relatedEmailIDs collects the message ids of a batch, used to tag
// extraction-level anomalies and shipment provenance.
func relatedEmailIDs(emails []domain.EmailDetail) []string {
	ids := make([]string, 0, len(emails))
	for i := range emails {
		ids = append(ids, emails[i].MessageID)
	}
	return ids
}
