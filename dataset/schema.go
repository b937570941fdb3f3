package dataset

// ClientColumn is the synthetic column holding the source sheet name.
const ClientColumn = "client"

// Schema names the columns the pipeline and the aggregates rely on. Names are
// compared after column-name cleaning, so they are lowercase.
type Schema struct {
	JobNo         string `json:"jobNo"`
	Quantity      string `json:"quantity"`
	InvoiceAmount string `json:"invoiceAmount"`
	Currency      string `json:"currency"`
	Commodity     string `json:"commodity"`
}

func DefaultSchema() Schema {
	return Schema{
		JobNo:         "job no",
		Quantity:      "quantity/mt",
		InvoiceAmount: "invoice amount",
		Currency:      "currency",
		Commodity:     "commodity",
	}
}

// NumericColumns lists the columns coerced to floating point values.
func (s Schema) NumericColumns() []string {
	return []string{s.Quantity, s.InvoiceAmount}
}
