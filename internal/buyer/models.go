package buyer

import (
	"encoding/json"
	"strings"

	dErrors "mercato/pkg/domain-errors"
)

// Approval status vocabulary. The backend never published an enum for this;
// the gateway treats it as closed and canonicalizes case variants.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Company is the buyer's business sub-record.
type Company struct {
	Name      string `json:"name"`
	GSTNumber string `json:"gst_number"`
	Address   string `json:"address"`
}

// KYC holds server-relative paths of the uploaded identity documents.
type KYC struct {
	AadharFront         string `json:"aadhar_front"`
	AadharBack          string `json:"aadhar_back"`
	DrivingLicenseFront string `json:"driving_license_front"`
	DrivingLicenseBack  string `json:"driving_license_back"`
}

// Buyer is one marketplace buyer as the gateway presents it: always flat,
// regardless of which shape the backend answered with.
type Buyer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Mobile        string  `json:"mobile"`
	Image         string  `json:"image,omitempty"`
	ApproveStatus string  `json:"approve_status"`
	Company       Company `json:"company"`
	KYC           KYC     `json:"kyc"`
}

// buyerCore carries the flat buyer fields. KYC is embedded so document paths
// are tolerated at the top level as well as under a "kyc" key.
type buyerCore struct {
	ID            string `json:"id"`
	MongoID       string `json:"_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	Image         string `json:"image"`
	ApproveStatus string `json:"approve_status"`
	KYC
}

// Decode parses one buyer record, tolerating both the flat shape and the
// nested {buyer, company, kyc} shape the detail endpoint answers with.
func Decode(raw json.RawMessage) (Buyer, error) {
	var wire struct {
		buyerCore
		Buyer   *buyerCore `json:"buyer"`
		Company *Company   `json:"company"`
		KYCObj  *KYC       `json:"kyc"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Buyer{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "undecodable buyer record")
	}

	core := wire.buyerCore
	if wire.Buyer != nil {
		core = *wire.Buyer
	}

	b := Buyer{
		ID:            core.ID,
		Name:          core.Name,
		Email:         core.Email,
		Mobile:        core.Mobile,
		Image:         core.Image,
		ApproveStatus: NormalizeStatus(core.ApproveStatus),
		KYC:           core.KYC,
	}
	if b.ID == "" {
		b.ID = core.MongoID
	}
	if wire.Company != nil {
		b.Company = *wire.Company
	}
	if wire.KYCObj != nil {
		b.KYC = *wire.KYCObj
	}
	return b, nil
}

// NormalizeStatus canonicalizes the approval vocabulary. Blank means the
// backend never set it, which only happens for records created before
// approval existed, so it reads as Pending. Unknown non-blank values pass
// through untouched rather than being guessed at.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return StatusPending
	case "pending":
		return StatusPending
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	default:
		return raw
	}
}

// Order is one of a buyer's orders with its product name joined in.
type Order struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

// UnknownProduct is the sentinel name used when a product lookup fails or
// the product no longer exists. Partial enrichment always beats a failed
// page.
const UnknownProduct = "Unknown Product"

func decodeOrder(raw json.RawMessage) (Order, error) {
	var wire struct {
		ID        string          `json:"id"`
		MongoID   string          `json:"_id"`
		ProductID string          `json:"product_id"`
		Product   json.RawMessage `json:"product"`
		Quantity  int             `json:"quantity"`
		Price     float64         `json:"price"`
		Status    string          `json:"status"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Order{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "undecodable order record")
	}

	o := Order{
		ID:        wire.ID,
		ProductID: wire.ProductID,
		Quantity:  wire.Quantity,
		Price:     wire.Price,
		Status:    wire.Status,
	}
	if o.ID == "" {
		o.ID = wire.MongoID
	}
	// "product" is sometimes a bare id string, sometimes an object.
	if o.ProductID == "" && len(wire.Product) > 0 {
		var idStr string
		if json.Unmarshal(wire.Product, &idStr) == nil {
			o.ProductID = idStr
		} else {
			var nested struct {
				ID      string `json:"id"`
				MongoID string `json:"_id"`
				Name    string `json:"name"`
			}
			if json.Unmarshal(wire.Product, &nested) == nil {
				o.ProductID = nested.ID
				if o.ProductID == "" {
					o.ProductID = nested.MongoID
				}
				o.ProductName = nested.Name
			}
		}
	}
	return o, nil
}
