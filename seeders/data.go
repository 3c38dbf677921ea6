package seeders

var categoriesData = []string{
	"Atemschutz",
	"Schläuche",
	"Leitern",
	"Hydraulisches Rettungsgerät",
	"Stromerzeuger",
	"Funk",
}

var locationsData = []string{
	"HLF 20",
	"LF 10",
	"DLK 23/12",
	"Gerätehaus Lager",
	"Atemschutzwerkstatt",
}

var personsData = []struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
}{
	{FirstName: "Thomas", LastName: "Becker", Email: "geraetewart@feuerwehr.example", Role: "Gerätewart"},
	{FirstName: "Julia", LastName: "Krüger", Email: "atemschutz@feuerwehr.example", Role: "Atemschutzgerätewart"},
	{FirstName: "Markus", LastName: "Wolf", Email: "", Role: "Maschinist"},
}

var equipmentData = []struct {
	InventoryNumber string
	Barcode         string
	Name            string
	Category        string
	Location        string
	Responsible     string
	Manufacturer    string
}{
	{"AS-001", "4006381333931", "Pressluftatmer PA 1", "Atemschutz", "HLF 20", "atemschutz@feuerwehr.example", "Dräger"},
	{"AS-002", "4006381333948", "Pressluftatmer PA 2", "Atemschutz", "HLF 20", "atemschutz@feuerwehr.example", "Dräger"},
	{"SL-010", "4006381333955", "B-Schlauch 20 m", "Schläuche", "LF 10", "geraetewart@feuerwehr.example", ""},
	{"LT-001", "4006381333962", "Steckleiter 4-teilig", "Leitern", "HLF 20", "geraetewart@feuerwehr.example", "Günzburger"},
	{"HR-001", "4006381333979", "Rettungsschere", "Hydraulisches Rettungsgerät", "HLF 20", "geraetewart@feuerwehr.example", "Weber Rescue"},
	{"SE-001", "4006381333986", "Stromerzeuger 8 kVA", "Stromerzeuger", "LF 10", "", "Eisemann"},
	{"FU-001", "4006381333993", "HRT Digitalfunk", "Funk", "Gerätehaus Lager", "", "Motorola"},
}

var templatesData = []struct {
	Name           string
	IntervalMonths *int
	Category       string
	Responsible    string
	Minutes        int
}{
	{Name: "Atemschutz Jahresprüfung", IntervalMonths: months(12), Category: "Atemschutz", Responsible: "atemschutz@feuerwehr.example", Minutes: 45},
	{Name: "Schlauchprüfung", IntervalMonths: months(12), Category: "Schläuche", Responsible: "geraetewart@feuerwehr.example", Minutes: 20},
	{Name: "Leiterprüfung", IntervalMonths: months(12), Category: "Leitern", Responsible: "geraetewart@feuerwehr.example", Minutes: 30},
	{Name: "Rettungsgerät Sichtprüfung", IntervalMonths: months(6), Category: "Hydraulisches Rettungsgerät", Responsible: "geraetewart@feuerwehr.example", Minutes: 15},
	{Name: "Stromerzeuger Probelauf", IntervalMonths: months(1), Category: "Stromerzeuger", Minutes: 10},
	{Name: "Fahrzeugbeladung Bestandsprüfung", Responsible: "geraetewart@feuerwehr.example", Minutes: 60},
}

func months(n int) *int { return &n }
