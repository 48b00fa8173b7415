package erpdb

// Byte budgets of the ERP's fixed-width varchar columns. CJK text counts two
// bytes per character in the ERP's code page.
const (
	widthCustomerNo    = 12
	widthCustomerName  = 110
	widthPhone         = 30
	widthEmail         = 255
	widthCountry       = 20
	widthContactPerson = 30
	widthSalespersonNo = 12
	widthSalesName     = 100

	widthOrderNo = 20
	widthUser    = 8

	widthProductNo     = 50
	widthProductName   = 100
	widthProductMark   = 255
	widthSpecification = 2000
	widthAttr          = 30
	widthPackUnit      = 24
	widthWeightUnit    = 8
	widthLineRemark    = 1000
	widthPackKind      = 20

	widthPackMethod     = 255
	widthPaperCard      = 50
	widthWashLabel      = 50
	widthOuterCarton    = 255
	widthCartonSpec     = 50
	amountScale         = 8
	orderKind           = "SO"
	orderClass          = "F"
	customerObjectKind  = "1"
	volumeUnit          = "m³"
	lineUnit            = "1"
	orderSuffixMaxWidth = 10
)
