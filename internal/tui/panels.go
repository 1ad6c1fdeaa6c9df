package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// view identifies the panel shown next to the sidebar.
type view int

const (
	viewChat view = iota
	viewPlanner
	viewSafety
	viewNotes

	viewCount
)

type navItem struct {
	icon  string
	label string
}

var navItems = [viewCount]navItem{
	viewChat:    {"✦", "Guide IA"},
	viewPlanner: {"➤", "Planificateur"},
	viewSafety:  {"⚠", "Scanner Sécurité"},
	viewNotes:   {"✎", "Carnet"},
}

func (v view) String() string {
	if v < 0 || v >= viewCount {
		return "unknown"
	}
	return navItems[v].label
}

// next returns the following view, wrapping around.
func (v view) next() view { return (v + 1) % viewCount }

// prev returns the preceding view, wrapping around.
func (v view) prev() view { return (v + viewCount - 1) % viewCount }

const sidebarWidth = 26

type dayPlan struct {
	title string
	steps []string
}

var itineraries = []dayPlan{
	{
		title: "Jour 1 · La Medina",
		steps: []string{
			"Matin : Koutoubia puis les Tombeaux Saadiens",
			"Midi : tajine sur une terrasse de la place des Ferblantiers",
			"Après-midi : Palais Bahia et le Mellah",
			"Soir : Jemaa el-Fna au coucher du soleil",
		},
	},
	{
		title: "Jour 2 · Jardins et artisans",
		steps: []string{
			"Matin : Jardin Majorelle et musée Yves Saint Laurent",
			"Après-midi : souks des teinturiers et de la dinanderie",
			"Fin de journée : atelier de zellige ou hammam traditionnel",
		},
	},
	{
		title: "Jour 3 · Hors de la ville",
		steps: []string{
			"Excursion vallée de l'Ourika ou désert d'Agafay",
			"Retour par la Palmeraie",
			"Dîner dans un riad du quartier Kasbah",
		},
	},
}

type emergencyContact struct {
	name   string
	number string
}

var emergencyContacts = []emergencyContact{
	{"Police", "19"},
	{"Gendarmerie Royale", "177"},
	{"Protection Civile / ambulance", "15"},
	{"Brigade touristique", "poste de Jemaa el-Fna"},
}

var safetyTips = []string{
	"Fixe le prix du taxi avant de monter ou exige le compteur.",
	"Refuse poliment les guides non officiels qui proposent de te montrer le chemin.",
	"Garde ton sac devant toi dans les souks et sur la place le soir.",
	"Les guides officiels portent un badge délivré par le ministère du Tourisme.",
}

// renderSidebar renders the brand and the navigation items.
func renderSidebar(active view, height int) string {
	var b strings.Builder
	b.WriteString(brandStyle.Render("ZELIG"))
	b.WriteString("\n")
	b.WriteString(brandTaglineStyle.Render("Digital Marrakech"))
	b.WriteString("\n")

	for i, item := range navItems {
		text := item.icon + " " + item.label
		if view(i) == active {
			b.WriteString(navActiveStyle.Render("› " + text))
		} else {
			b.WriteString(navItemStyle.Render(text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab · changer de vue"))

	style := sidebarStyle.Width(sidebarWidth)
	if height > 2 {
		style = style.Height(height - 2)
	}
	return style.Render(b.String())
}

// renderPlanner renders the itinerary suggestions.
func renderPlanner(width int) string {
	sections := []string{panelTitleStyle.Render("Planificateur · idées d'itinéraires")}
	for _, day := range itineraries {
		lines := []string{panelSectionStyle.Render(day.title)}
		for _, step := range day.steps {
			lines = append(lines, panelTextStyle.Render("  • "+step))
		}
		sections = append(sections, strings.Join(lines, "\n"), "")
	}
	sections = append(sections, hintStyle.Render("Demande au Guide IA d'adapter un jour à ton rythme."))
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderSafety renders the emergency numbers and street tips.
func renderSafety(width int) string {
	lines := []string{
		panelTitleStyle.Render("Scanner Sécurité"),
		panelSectionStyle.Render("Numéros d'urgence"),
	}
	for _, c := range emergencyContacts {
		lines = append(lines, panelTextStyle.Render("  "+c.name+" : ")+emergencyNumberStyle.Render(c.number))
	}
	lines = append(lines, "", panelSectionStyle.Render("Conseils"))
	for _, tip := range safetyTips {
		lines = append(lines, panelTextStyle.Render("  • "+tip))
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderNotes renders the notebook placeholder.
func renderNotes(width int) string {
	lines := []string{
		panelTitleStyle.Render("Carnet"),
		panelTextStyle.Render("Ton carnet de voyage arrive bientôt."),
		hintStyle.Render("En attendant, ctrl+y dans le Guide IA copie la dernière réponse."),
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}
