package main

type Job struct {
	Title   string
	Company string
	Period  string
	Details []string
}

type Project struct {
	Name  string
	Desc  string
	Link  string
	Image string
	Tech  []string
}

type Skill struct {
	Name  string
	Level int
}

type Stat struct {
	Icon   string
	Label  string
	Detail string
	Value  int
}

type Study struct {
	Degree      string
	Institution string
	Period      string
}

type Link struct {
	Name string
	URL  string
}

var (
	Name     = "Sergio Carbajal"
	Headline = "Data & Automation Engineer"
	Email    = "SergioCarbajal421@gmail.com"

	AboutMe = `Ingeniero Empresarial enfocado en análisis de datos y automatización.
	Convierto procesos manuales en flujos automáticos con Python y SQL, y construyo
	dashboards que ayudan a tomar decisiones con datos en tiempo real.`

	Education = []Study{
		{"Ingeniería Empresarial", "Universidad Privada del Norte", "2020 - 2025"},
	}

	SocialMedia = []Link{
		{"LinkedIn", "https://www.linkedin.com/in/sergiocarbajal/"},
		{"GitHub", "https://github.com/sergiocarbajal421-alt"},
	}

	QuickStats = []Stat{
		{"P", "Proyectos", "Entregados", 12},
		{"H", "Ahorro horas", "Mensual", 120},
	}

	Experience = []Job{
		{
			Title:   "Auxiliar Data Analyst Comercial",
			Company: "Grupo Educativo Visiva",
			Period:  "05/2025 – Actualidad",
			Details: []string{
				"Automaticé tareas operativas con Python, reduciendo tiempos de 3h a 20min.",
				"Desarrollé dashboards interactivos en Python para monitoreo en tiempo real.",
				"Implementé proyectos de SQL Cloud para centralizar bases de datos.",
				"Utilicé tecnologías open source optimizando recursos sin costo adicional.",
			},
		},
		{
			Title:   "Practicante de Análisis de Datos y Automatización",
			Company: "Grupo Credigama",
			Period:  "02/2022 – 12/2022",
			Details: []string{
				"Desarrollé reportes interactivos en Power BI.",
				"Gestioné el entorno Azure y Microsoft 365.",
				"Desarrollé aplicaciones con Power Apps para automatización.",
				"Automaticé reportes en Excel mejorando la eficiencia.",
			},
		},
	}

	Projects = []Project{
		{
			Name:  "Gestión de Venta de Lotes",
			Desc:  "Streamlit + SQL Cloud para automatización de ventas de lotes.",
			Link:  "https://gestionventalotes.streamlit.app/",
			Image: "https://img.icons8.com/color/48/real-estate.png",
			Tech:  []string{"Python", "SQL", "Streamlit", "Git/GitHub", "VS Code"},
		},
		{
			Name:  "Sistema Analítico de Accidentes de Tránsito – Perú 2020–2021",
			Desc:  "Dashboard analítico con visualizaciones y mapas sobre accidentes de tránsito en Perú.",
			Link:  "https://accidentestransito.streamlit.app/",
			Image: "https://img.icons8.com/color/96/traffic-light.png",
			Tech:  []string{"Python", "Streamlit", "Git/GitHub", "VS Code"},
		},
	}

	Skills = []Skill{
		{"Python", 99}, {"SQL", 90}, {"VS Code", 80}, {"Inglés", 80},
		{"Git", 70}, {"Excel", 70}, {"Power BI", 50},
	}

	// Typewriter roles cycled in the hero.
	Roles = []string{"Data Analyst", "Automation Engineer", "Python Developer"}

	ContactSuccess = "¡Gracias por tu mensaje! Te responderé pronto."
)
