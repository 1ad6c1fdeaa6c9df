package guide

import (
	"context"
	"fmt"
	"strings"
)

// EchoClient is an offline guide that answers from a few canned tips.
type EchoClient struct{}

var echoTips = []struct {
	keywords []string
	tip      string
}{
	{[]string{"taxi", "transport"}, "Les petits taxis doivent utiliser le compteur. Demande-le avant de monter."},
	{[]string{"prix", "price", "souk"}, "Dans les souks, commence à négocier autour du tiers du prix annoncé."},
	{[]string{"sécurité", "securite", "safety", "police"}, "Police 19, Gendarmerie Royale 177, Protection Civile 15."},
	{[]string{"riad", "hotel"}, "Les riads de la Medina sont calmes ; prévois un guide pour la première arrivée de nuit."},
}

// Reply implements Guide.
func (EchoClient) Reply(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lower := strings.ToLower(text)
	for _, t := range echoTips {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.tip, nil
			}
		}
	}
	return fmt.Sprintf("Tu as demandé : « %s ». Mode hors ligne, pose-moi une question sur les taxis, les prix, les riads ou la sécurité.", text), nil
}

// Name implements Named.
func (EchoClient) Name() string { return "echo" }
