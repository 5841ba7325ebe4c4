package model

// StaticProvinces dipakai ketika layanan data wilayah tidak bisa diakses.
var StaticProvinces = []LocationNode{
	{Value: "11", Label: "ACEH"},
	{Value: "12", Label: "SUMATERA UTARA"},
	{Value: "13", Label: "SUMATERA BARAT"},
	{Value: "14", Label: "RIAU"},
	{Value: "15", Label: "JAMBI"},
	{Value: "16", Label: "SUMATERA SELATAN"},
	{Value: "17", Label: "BENGKULU"},
	{Value: "18", Label: "LAMPUNG"},
	{Value: "19", Label: "KEPULAUAN BANGKA BELITUNG"},
	{Value: "21", Label: "KEPULAUAN RIAU"},
	{Value: "31", Label: "DKI JAKARTA"},
	{Value: "32", Label: "JAWA BARAT"},
	{Value: "33", Label: "JAWA TENGAH"},
	{Value: "34", Label: "DI YOGYAKARTA"},
	{Value: "35", Label: "JAWA TIMUR"},
	{Value: "36", Label: "BANTEN"},
	{Value: "51", Label: "BALI"},
	{Value: "52", Label: "NUSA TENGGARA BARAT"},
	{Value: "53", Label: "NUSA TENGGARA TIMUR"},
	{Value: "61", Label: "KALIMANTAN BARAT"},
	{Value: "62", Label: "KALIMANTAN TENGAH"},
	{Value: "63", Label: "KALIMANTAN SELATAN"},
	{Value: "64", Label: "KALIMANTAN TIMUR"},
	{Value: "65", Label: "KALIMANTAN UTARA"},
	{Value: "71", Label: "SULAWESI UTARA"},
	{Value: "72", Label: "SULAWESI TENGAH"},
	{Value: "73", Label: "SULAWESI SELATAN"},
	{Value: "74", Label: "SULAWESI TENGGARA"},
	{Value: "75", Label: "GORONTALO"},
	{Value: "76", Label: "SULAWESI BARAT"},
	{Value: "81", Label: "MALUKU"},
	{Value: "82", Label: "MALUKU UTARA"},
	{Value: "91", Label: "PAPUA"},
	{Value: "92", Label: "PAPUA BARAT"},
	{Value: "93", Label: "PAPUA SELATAN"},
	{Value: "94", Label: "PAPUA TENGAH"},
	{Value: "95", Label: "PAPUA PEGUNUNGAN"},
	{Value: "96", Label: "PAPUA BARAT DAYA"},
}
