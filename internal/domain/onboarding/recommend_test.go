package onboarding

import (
	"strings"
	"testing"
)

func serviceIDs(services []ServiceRecommendation) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.ServiceID)
	}
	return out
}

func hasService(services []ServiceRecommendation, id string) bool {
	for _, s := range services {
		if s.ServiceID == id {
			return true
		}
	}
	return false
}

func TestRecommendServices_EmptyAnswers(t *testing.T) {
	services := RecommendServices(BusinessProfile{}, CurrentMarketing{}, Goals{})

	// No SEO channel and no website channel trigger the two foundation rules.
	ids := serviceIDs(services)
	if len(ids) != 2 || ids[0] != "seo" || ids[1] != "website_development" {
		t.Errorf("Expected [seo website_development], got %v", ids)
	}
}

func TestRecommendServices_Ecommerce(t *testing.T) {
	profile := BusinessProfile{BusinessType: "ecommerce", CompanySize: "growing", YearsInBusiness: "3-5"}
	marketing := CurrentMarketing{CurrentChannels: []string{"SEO", "Website"}, MonthlyBudget: "$1,000-5,000"}
	goals := Goals{PrimaryGoals: []string{"Generate more leads"}, Timeline: "3-6 months"}

	services := RecommendServices(profile, marketing, goals)

	for _, want := range []string{"seo", "social_media", "ppc", "email_marketing"} {
		if !hasService(services, want) {
			t.Errorf("Expected %q in %v", want, serviceIDs(services))
		}
	}
	// SEO and Website are already covered channels, but ecommerce still gets
	// SEO on business type; website development needs neither trigger.
	if hasService(services, "website_development") {
		t.Errorf("Did not expect website_development in %v", serviceIDs(services))
	}

	for _, s := range services {
		if s.ServiceID == "seo" && !strings.Contains(s.Reasoning, "online store") {
			t.Errorf("Expected ecommerce-specific reasoning, got %q", s.Reasoning)
		}
	}
}

func TestRecommendServices_SaaSThoughtLeadership(t *testing.T) {
	profile := BusinessProfile{BusinessType: "saas", YearsInBusiness: "5+"}
	marketing := CurrentMarketing{CurrentChannels: []string{"SEO", "Website"}}
	goals := Goals{PrimaryGoals: []string{"Build thought leadership"}}

	services := RecommendServices(profile, marketing, goals)
	if !hasService(services, "content_marketing") {
		t.Errorf("Expected content_marketing in %v", serviceIDs(services))
	}
	if !hasService(services, "seo") {
		t.Errorf("Expected seo for saas in %v", serviceIDs(services))
	}
}

func TestRecommendServices_HighBudgetTriggersPPC(t *testing.T) {
	marketing := CurrentMarketing{CurrentChannels: []string{"SEO", "Website"}, MonthlyBudget: "$10,000+"}
	services := RecommendServices(BusinessProfile{BusinessType: "fintech"}, marketing, Goals{})
	if !hasService(services, "ppc") {
		t.Errorf("Expected ppc for high budget in %v", serviceIDs(services))
	}
}

func TestRecommendServices_ReasoningFallback(t *testing.T) {
	profile := BusinessProfile{BusinessType: "nonprofit"}
	goals := Goals{PrimaryGoals: []string{"Increase online visibility"}}
	services := RecommendServices(profile, CurrentMarketing{CurrentChannels: []string{"Website"}}, goals)

	for _, s := range services {
		if s.ServiceID == "seo" {
			if s.Reasoning != "Recommended based on your business profile and goals" {
				t.Errorf("Expected generic reasoning for unknown type, got %q", s.Reasoning)
			}
			return
		}
	}
	t.Fatalf("Expected seo in %v", serviceIDs(services))
}

func TestBuildStrategy_KnownType(t *testing.T) {
	s := BuildStrategy("Acme Shop", BusinessProfile{BusinessType: "ecommerce"})

	if !strings.Contains(s.Overview, "Acme Shop") {
		t.Errorf("Expected company name in overview, got %q", s.Overview)
	}
	if !strings.Contains(s.Overview, "product visibility and conversion optimization") {
		t.Errorf("Expected ecommerce focus in overview, got %q", s.Overview)
	}
	if len(s.KeyRecommendations) == 0 || !strings.Contains(s.KeyRecommendations[0], "SEO") {
		t.Errorf("Expected SEO as primary channel, got %v", s.KeyRecommendations)
	}
	if len(s.ExpectedOutcomes) == 0 || !strings.Contains(s.ExpectedOutcomes[0], "2-4 months") {
		t.Errorf("Expected ecommerce timeline, got %v", s.ExpectedOutcomes)
	}
}

func TestBuildStrategy_Fallbacks(t *testing.T) {
	s := BuildStrategy("", BusinessProfile{BusinessType: "bakery"})

	if !strings.Contains(s.Overview, "Your Business") {
		t.Errorf("Expected company name fallback, got %q", s.Overview)
	}
	// Unknown business types use the startup profile.
	if !strings.Contains(s.Overview, "rapid growth and market validation") {
		t.Errorf("Expected startup fallback focus, got %q", s.Overview)
	}
}
