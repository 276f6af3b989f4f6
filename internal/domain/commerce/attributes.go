package commerce

// Attributes exposes a record's fields by name for table-driven mappings.
// The second result is false for names the record does not define.
type Attributes interface {
	Attribute(name string) (any, bool)
}

// Attribute implements Attributes
func (o *Order) Attribute(name string) (any, bool) {
	switch name {
	case "id":
		return o.ID, true
	case "number":
		return o.Number, true
	case "couponCode":
		return o.CouponCode, true
	case "message":
		return o.Message, true
	case "totalPrice":
		return o.TotalPrice, true
	case "totalTax":
		return o.TotalTax, true
	case "totalShippingCost":
		return o.TotalShippingCost, true
	case "totalDiscount":
		return o.TotalDiscount, true
	case "dateOrdered":
		return o.DateOrdered, true
	case "dateUpdated":
		return o.DateUpdated, true
	case "datePaid":
		return o.DatePaid, true
	case "email":
		return o.Email(), true
	}
	if v, ok := o.CustomFields[name]; ok {
		return v, true
	}
	return nil, false
}

// Attribute implements Attributes
func (li *LineItem) Attribute(name string) (any, bool) {
	switch name {
	case "id":
		return li.ID, true
	case "sku":
		return li.SKU, true
	case "description":
		return li.Description, true
	case "weight":
		return li.Weight, true
	case "qty":
		return li.Qty, true
	case "price":
		return li.Price, true
	case "salePrice":
		return li.SalePrice, true
	}
	return nil, false
}

// Attribute implements Attributes
func (a *Address) Attribute(name string) (any, bool) {
	switch name {
	case "firstName":
		return a.FirstName, true
	case "lastName":
		return a.LastName, true
	case "businessName":
		return a.BusinessName, true
	case "phone":
		return a.Phone, true
	case "address1":
		return a.Address1, true
	case "address2":
		return a.Address2, true
	case "city":
		return a.City, true
	case "stateText":
		return a.StateText, true
	case "zipCode":
		return a.ZipCode, true
	}
	return nil, false
}

// Attribute implements Attributes
func (c *Customer) Attribute(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "email":
		return c.Email, true
	}
	return nil, false
}
