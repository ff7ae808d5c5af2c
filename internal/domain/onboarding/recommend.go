package onboarding

import "fmt"

// Answers are the parsed step payloads the recommendation rules read.
// Unknown or missing fields are zero values; the rules tolerate them.
type BusinessProfile struct {
	BusinessType    string `json:"businessType"`
	CompanySize     string `json:"companySize"`
	YearsInBusiness string `json:"yearsInBusiness"`
}

type CurrentMarketing struct {
	CurrentChannels []string `json:"currentChannels"`
	MonthlyBudget   string   `json:"monthlyBudget"`
}

type Goals struct {
	PrimaryGoals []string `json:"primaryGoals"`
	Timeline     string   `json:"timeline"`
}

// ServiceRecommendation is one recommended service with rationale.
type ServiceRecommendation struct {
	ServiceID     string `json:"serviceId"`
	ServiceName   string `json:"serviceName"`
	Priority      string `json:"priority"`
	Reasoning     string `json:"reasoning"`
	EstimatedCost string `json:"estimatedCost"`
	Timeline      string `json:"timeline"`
}

// Strategy is the generated custom strategy document.
type Strategy struct {
	Overview           string   `json:"overview"`
	KeyRecommendations []string `json:"keyRecommendations"`
	NextSteps          []string `json:"nextSteps"`
	ExpectedOutcomes   []string `json:"expectedOutcomes"`
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// RecommendServices applies the static rule table over the onboarding answers
// and returns the matching services in a fixed order.
func RecommendServices(profile BusinessProfile, marketing CurrentMarketing, goals Goals) []ServiceRecommendation {
	var services []ServiceRecommendation

	if contains(goals.PrimaryGoals, "Increase online visibility") ||
		!contains(marketing.CurrentChannels, "SEO") ||
		profile.BusinessType == "ecommerce" ||
		profile.BusinessType == "saas" {
		services = append(services, ServiceRecommendation{
			ServiceID:     "seo",
			ServiceName:   "Search Engine Optimization",
			Priority:      "high",
			Reasoning:     businessTypeReasoning(profile.BusinessType, "seo"),
			EstimatedCost: "$1,500-3,000/month",
			Timeline:      "3-6 months for results",
		})
	}

	if contains(goals.PrimaryGoals, "Boost brand awareness") ||
		contains(goals.PrimaryGoals, "Generate more leads") ||
		profile.BusinessType == "small_business" ||
		profile.BusinessType == "ecommerce" {
		services = append(services, ServiceRecommendation{
			ServiceID:     "social_media",
			ServiceName:   "Social Media Marketing",
			Priority:      "high",
			Reasoning:     businessTypeReasoning(profile.BusinessType, "social_media"),
			EstimatedCost: "$1,000-2,500/month",
			Timeline:      "1-3 months for engagement growth",
		})
	}

	if contains(goals.PrimaryGoals, "Generate more leads") ||
		marketing.MonthlyBudget == "$5,000-10,000" ||
		marketing.MonthlyBudget == "$10,000+" ||
		goals.Timeline == "Immediate (1-3 months)" {
		services = append(services, ServiceRecommendation{
			ServiceID:     "ppc",
			ServiceName:   "Pay-Per-Click Advertising",
			Priority:      "medium",
			Reasoning:     "Quick results for lead generation and immediate visibility",
			EstimatedCost: "$2,000-5,000/month",
			Timeline:      "1-2 weeks for campaign launch",
		})
	}

	if profile.BusinessType == "saas" ||
		profile.BusinessType == "startup" ||
		contains(goals.PrimaryGoals, "Build thought leadership") {
		services = append(services, ServiceRecommendation{
			ServiceID:     "content_marketing",
			ServiceName:   "Content Marketing",
			Priority:      "medium",
			Reasoning:     businessTypeReasoning(profile.BusinessType, "content_marketing"),
			EstimatedCost: "$1,200-2,000/month",
			Timeline:      "2-4 months for content library",
		})
	}

	if contains(goals.PrimaryGoals, "Improve customer retention") ||
		profile.BusinessType == "ecommerce" ||
		profile.CompanySize == "growing" ||
		profile.CompanySize == "established" {
		services = append(services, ServiceRecommendation{
			ServiceID:     "email_marketing",
			ServiceName:   "Email Marketing",
			Priority:      "medium",
			Reasoning:     "Excellent ROI for customer retention and nurturing",
			EstimatedCost: "$500-1,500/month",
			Timeline:      "2-4 weeks for setup",
		})
	}

	if profile.YearsInBusiness == "just_starting" ||
		profile.YearsInBusiness == "early_stage" ||
		!contains(marketing.CurrentChannels, "Website") {
		services = append(services, ServiceRecommendation{
			ServiceID:     "website_development",
			ServiceName:   "Website Design/Development",
			Priority:      "high",
			Reasoning:     "Essential foundation for all digital marketing efforts",
			EstimatedCost: "$3,000-8,000 one-time",
			Timeline:      "4-8 weeks for completion",
		})
	}

	return services
}

var reasoningTable = map[string]map[string]string{
	"small_business": {
		"seo":               "Local SEO is crucial for small businesses to be found by nearby customers",
		"social_media":      "Perfect for building community and local brand awareness",
		"content_marketing": "Helps establish expertise and trust in your local market",
	},
	"ecommerce": {
		"seo":               "Essential for product discovery and organic traffic to your online store",
		"social_media":      "Drives traffic and showcases products to potential customers",
		"content_marketing": "Product guides and reviews boost SEO and customer confidence",
	},
	"saas": {
		"seo":               "Critical for B2B software discovery and thought leadership",
		"social_media":      "LinkedIn and Twitter are key for B2B lead generation",
		"content_marketing": "Educational content drives qualified leads and establishes authority",
	},
	"mobile_app": {
		"seo":               "App Store Optimization (ASO) and web presence for app discovery",
		"social_media":      "Essential for app promotion and user engagement",
		"content_marketing": "Tutorials and feature highlights drive app downloads",
	},
	"fintech": {
		"seo":               "Trust and authority are crucial in financial services",
		"social_media":      "Educational content builds trust and compliance awareness",
		"content_marketing": "Regulatory compliance and educational content is essential",
	},
	"startup": {
		"seo":               "Early SEO foundation sets up long-term organic growth",
		"social_media":      "Cost-effective way to build initial brand awareness",
		"content_marketing": "Thought leadership content attracts investors and customers",
	},
}

func businessTypeReasoning(businessType, service string) string {
	if byService, ok := reasoningTable[businessType]; ok {
		if reason, ok := byService[service]; ok {
			return reason
		}
	}
	return "Recommended based on your business profile and goals"
}

type strategyProfile struct {
	focus       string
	keyChannels []string
	timeline    string
}

var strategyTable = map[string]strategyProfile{
	"small_business": {
		focus:       "local visibility and community engagement",
		keyChannels: []string{"Local SEO", "Google My Business", "Social Media", "Local Partnerships"},
		timeline:    "3-6 months for local market dominance",
	},
	"ecommerce": {
		focus:       "product visibility and conversion optimization",
		keyChannels: []string{"SEO", "PPC", "Social Commerce", "Email Marketing"},
		timeline:    "2-4 months for traffic and sales growth",
	},
	"saas": {
		focus:       "lead generation and thought leadership",
		keyChannels: []string{"Content Marketing", "LinkedIn", "SEO", "Webinars"},
		timeline:    "4-8 months for qualified lead pipeline",
	},
	"mobile_app": {
		focus:       "app downloads and user engagement",
		keyChannels: []string{"App Store Optimization", "Social Media", "Influencer Marketing"},
		timeline:    "2-6 months for user acquisition",
	},
	"fintech": {
		focus:       "trust building and compliance-aware marketing",
		keyChannels: []string{"Educational Content", "LinkedIn", "Webinars", "PR"},
		timeline:    "6-12 months for trust and authority building",
	},
	"startup": {
		focus:       "rapid growth and market validation",
		keyChannels: []string{"Content Marketing", "Social Media", "PR", "Community Building"},
		timeline:    "3-9 months for market traction",
	},
}

// BuildStrategy generates the custom strategy document for a completed
// onboarding. Unknown business types fall back to the startup profile.
func BuildStrategy(companyName string, profile BusinessProfile) Strategy {
	if companyName == "" {
		companyName = "Your Business"
	}
	sp, ok := strategyTable[profile.BusinessType]
	if !ok {
		sp = strategyTable["startup"]
	}

	return Strategy{
		Overview: fmt.Sprintf("Based on %s's profile as a %s business, we recommend a focused approach on %s.",
			companyName, profile.BusinessType, sp.focus),
		KeyRecommendations: []string{
			fmt.Sprintf("Prioritize %s as your primary growth channel", sp.keyChannels[0]),
			fmt.Sprintf("Implement %s for immediate visibility", sp.keyChannels[1]),
			"Set up comprehensive analytics and tracking",
			"Create a content calendar aligned with your business goals",
		},
		NextSteps: []string{
			"Schedule strategy consultation call",
			"Conduct comprehensive business audit",
			"Develop 90-day action plan",
			"Set up tracking and reporting systems",
		},
		ExpectedOutcomes: []string{
			sp.timeline + " for measurable results",
			"Improved brand visibility in your target market",
			"Higher quality lead generation",
			"Better ROI on marketing investments",
		},
	}
}
