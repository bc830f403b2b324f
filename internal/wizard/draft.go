package wizard

// KitchenPreference is the applicant's answer to where they plan to cook.
type KitchenPreference string

const (
	KitchenCommercial KitchenPreference = "commercial"
	KitchenHome       KitchenPreference = "home"
	KitchenNotSure    KitchenPreference = "notSure"
)

// CertAnswer is a yes/no/notSure answer about holding a certification.
type CertAnswer string

const (
	CertYes     CertAnswer = "yes"
	CertNo      CertAnswer = "no"
	CertNotSure CertAnswer = "notSure"
)

// Logical document field names used for evidence, multipart parts and JSON keys.
const (
	FieldFoodSafetyLicense     = "foodSafetyLicense"
	FieldFoodEstablishmentCert = "foodEstablishmentCert"
)

// Draft is the accumulated partial application record built across steps.
// Fields are empty until their owning step validates; after that they stay
// populated until the session is reset.
type Draft struct {
	FullName              string
	Email                 string
	Phone                 string
	KitchenPreference     KitchenPreference
	FoodSafetyLicense     CertAnswer
	FoodEstablishmentCert CertAnswer
	Feedback              string
	DocumentRefs          map[string]Evidence
}

// Patch is a partial update to a Draft. Nil fields are left untouched;
// non-nil fields overwrite the draft value. DocumentRefs entries are merged
// per key.
type Patch struct {
	FullName              *string
	Email                 *string
	Phone                 *string
	KitchenPreference     *KitchenPreference
	FoodSafetyLicense     *CertAnswer
	FoodEstablishmentCert *CertAnswer
	Feedback              *string
	DocumentRefs          map[string]Evidence
}

func (d *Draft) apply(p Patch) {
	if p.FullName != nil {
		d.FullName = *p.FullName
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.KitchenPreference != nil {
		d.KitchenPreference = *p.KitchenPreference
	}
	if p.FoodSafetyLicense != nil {
		d.FoodSafetyLicense = *p.FoodSafetyLicense
	}
	if p.FoodEstablishmentCert != nil {
		d.FoodEstablishmentCert = *p.FoodEstablishmentCert
	}
	if p.Feedback != nil {
		d.Feedback = *p.Feedback
	}
	for field, ev := range p.DocumentRefs {
		if d.DocumentRefs == nil {
			d.DocumentRefs = make(map[string]Evidence)
		}
		d.DocumentRefs[field] = ev
	}
}

// clone returns a copy of the draft safe to hand out to callers.
func (d Draft) clone() Draft {
	out := d
	if d.DocumentRefs != nil {
		out.DocumentRefs = make(map[string]Evidence, len(d.DocumentRefs))
		for k, v := range d.DocumentRefs {
			out.DocumentRefs[k] = v
		}
	}
	return out
}

// Evidence returns the evidence recorded for a document field, or an
// EvidenceNone value when nothing has been attached.
func (d Draft) Evidence(field string) Evidence {
	if ev, ok := d.DocumentRefs[field]; ok {
		return ev
	}
	return Evidence{Kind: EvidenceNone}
}

// StringPtr is a convenience for building patches from literals.
func StringPtr(s string) *string { return &s }

// KitchenPtr is a convenience for building patches from literals.
func KitchenPtr(k KitchenPreference) *KitchenPreference { return &k }

// CertPtr is a convenience for building patches from literals.
func CertPtr(a CertAnswer) *CertAnswer { return &a }
