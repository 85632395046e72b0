package broadcast

import (
	"strconv"
	"strings"

	"supplierhub/models"
)

// Built-in message used when the buyer has no template.
const (
	DefaultSubject = "Request for Quotation: {{rfq_title}}"
	DefaultBody    = `Dear {{factory_name}},

We would like to request a quotation for the following order:

Product: {{rfq_title}}
Category: {{rfq_category}}
Quantity: {{rfq_quantity}} units
Required by: {{rfq_deadline}}

{{rfq_description}}

Please reply with your unit price, lead time and minimum order quantity.

Best regards,
{{sender_name}}
{{sender_company}}`
)

// Vars are the values substituted into a template.
type Vars struct {
	Title         string
	Category      string
	Quantity      int
	Deadline      string
	Description   string
	SenderName    string
	SenderCompany string
	FactoryName   string
}

// NewVars collects the placeholder values for one factory.
func NewVars(rfq *models.RFQ, category string, from Sender, f *models.Factory) Vars {
	v := Vars{
		Title:         rfq.Title,
		Category:      category,
		Quantity:      rfq.Quantity,
		Deadline:      rfq.Deadline.Format("2006-01-02"),
		Description:   rfq.Description,
		SenderName:    from.Name,
		SenderCompany: from.Company,
	}
	if f != nil {
		v.FactoryName = f.DisplayName()
	}
	return v
}

// Render substitutes every known placeholder. Unknown ones are left as is.
func Render(text string, v Vars) string {
	return strings.NewReplacer(
		"{{rfq_title}}", v.Title,
		"{{rfq_category}}", v.Category,
		"{{rfq_quantity}}", strconv.Itoa(v.Quantity),
		"{{rfq_deadline}}", v.Deadline,
		"{{rfq_description}}", v.Description,
		"{{sender_name}}", v.SenderName,
		"{{sender_company}}", v.SenderCompany,
		"{{factory_name}}", v.FactoryName,
	).Replace(text)
}
