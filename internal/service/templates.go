package service

import (
	"fmt"
	"strings"
)

// KickoffMessage is the default message a coach sends when the program is
// ready, proposing dates for the kickoff meeting.
func KickoffMessage(learnerFirstName string, weeks int, coachFirstName string) string {
	greeting := "Bonjour,"
	if f := strings.TrimSpace(learnerFirstName); f != "" {
		greeting = "Bonjour " + f + ","
	}
	signature := strings.TrimSpace(coachFirstName)
	if signature == "" {
		signature = "Ton coach"
	}
	lines := []string{
		greeting,
		"",
		"Merci pour ta demande qui est très claire. Bravo, c'est déjà un premier pas essentiel : exprimer son projet avec clarté.",
		"",
		fmt.Sprintf("J'ai pu préparer un programme de travail sur la durée souhaitée (%d semaines).", weeks),
		"Je te propose de nous en parler lors du rendez-vous de démarrage.",
		"",
		"Voici quelques options de dates:",
		"- [Option 1]",
		"- [Option 2]",
		"- [Option 3]",
		"",
		"J'espère que l'une d'entre elles te conviendra.",
		"D'ici là je reste disponible pour toute question.",
		"",
		"A bientôt.",
		"",
		signature,
	}
	return strings.Join(lines, "\n")
}

// ClosureMessage is the default message closing a campaign.
func ClosureMessage(learnerFirstName, objective string, weeks int, coachFirstName string) string {
	greeting := "Bonjour,"
	if f := strings.TrimSpace(learnerFirstName); f != "" {
		greeting = "Cher " + f + ","
	}
	objective = strings.TrimSpace(objective)
	if objective == "" {
		objective = "ton projet"
	}
	lines := []string{
		greeting,
		"",
		fmt.Sprintf("Ça a été un réel plaisir de t'accompagner dans ton objectif : %s.", objective),
		"",
		fmt.Sprintf("Au cours de ces %d semaines, tu as réalisé avec brio les activités proposées, en prenant en compte les retours que nous avons évoqués ensemble lors des points hebdomadaires.", weeks),
		"",
		"Et maintenant ?",
		"Une autre phase peut commencer : la réflexivité, être son propre coach avec un regard précis et bienveillant.",
		"Nous pouvons aussi rester en contact en nous écrivant de temps en temps, ça me ferait très plaisir de suivre ton évolution.",
		"Et si tu souhaites approfondir certains concepts dans ce format, je resterai disponible.",
		"",
		"Au plaisir de nous revoir et d'échanger.",
		"",
		strings.TrimSpace(coachFirstName),
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// mailSubject builds "<prefix> - <objective> [<campaign id>]" with the
// objective cut to 60 characters.
func mailSubject(prefix, objective, campaignID string) string {
	o := []rune(strings.TrimSpace(objective))
	if len(o) > 60 {
		o = o[:60]
	}
	return fmt.Sprintf("%s - %s [%s]", prefix, string(o), campaignID)
}
