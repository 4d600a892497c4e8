package web

import "strings"

type NavItem struct {
	ID    string
	Label string
}

type Service struct {
	Title       string
	Description string
	Features    []string
}

type Feature struct {
	Number      string
	Title       string
	Description string
}

type Business struct {
	Name           string
	Owner          string
	RegistrationNo string
	Address        string
}

// Content is the static copy of the landing page.
type Content struct {
	SiteName    string
	ChatURL     string
	Title       string
	Description string
	Keywords    string

	Nav         []NavItem
	TrustBadges []string
	Services    []Service
	Features    []Feature
	Business    Business
}

func NewContent(siteName, chatURL string) Content {
	return Content{
		SiteName:    siteName,
		ChatURL:     chatURL,
		Title:       siteName + " | 누수·하수구·설비·인테리어 전문",
		Description: "합리적인 금액으로 누수·하수구·설비·인테리어 올인원 해결! 전국 어디서나 신속하고 정확한 서비스를 제공합니다.",
		Keywords:    "누수, 하수구, 설비, 인테리어, 수리, 전국, 올인원, 합리적, 신속",
		Nav: []NavItem{
			{ID: "home", Label: "홈"},
			{ID: "services", Label: "서비스"},
			{ID: "features", Label: "왜 " + siteName + "인가"},
			{ID: "contact", Label: "상담문의"},
		},
		TrustBadges: []string{"무료 견적", "신속 출동", "합리적 가격", "A/S 보장"},
		Services: []Service{
			{
				Title:       "누수 탐지 및 수리",
				Description: "최신 장비로 정확한 누수 위치 탐지 후 깔끔하게 수리합니다. 벽, 바닥, 천장 어디든 OK!",
				Features:    []string{"정밀 누수 탐지", "배관 수리", "방수 처리", "벽체 복구"},
			},
			{
				Title:       "하수구 막힘 해결",
				Description: "막힌 하수구, 역류 문제를 신속하게 해결합니다. 고압 세척으로 깨끗하게!",
				Features:    []string{"하수구 뚫기", "고압 세척", "배수관 청소", "역류 방지"},
			},
			{
				Title:       "설비 공사",
				Description: "보일러, 난방, 수도 등 각종 설비 공사를 전문적으로 진행합니다.",
				Features:    []string{"보일러 설치/수리", "난방 배관", "수도 공사", "온수기 설치"},
			},
			{
				Title:       "인테리어",
				Description: "욕실, 주방, 베란다 등 공간별 맞춤 인테리어를 제공합니다.",
				Features:    []string{"욕실 리모델링", "주방 인테리어", "타일 시공", "도배/장판"},
			},
		},
		Features: []Feature{
			{Number: "01", Title: "올인원 서비스", Description: "누수, 하수구, 설비, 인테리어까지 한 번에! 여러 업체 부를 필요 없이 한 곳에서 모든 문제를 해결합니다."},
			{Number: "02", Title: "합리적인 가격", Description: "중간 마진 없이 직접 시공으로 합리적인 가격을 제공합니다. 무료 견적으로 부담 없이 상담하세요."},
			{Number: "03", Title: "신속한 출동", Description: "긴급한 상황에도 빠르게 대응합니다. 전국 어디서나 신속하게 출동하여 문제를 해결해 드립니다."},
			{Number: "04", Title: "전문 기술진", Description: "오랜 경험과 노하우를 갖춘 전문 기술진이 정확한 진단과 시공을 제공합니다."},
			{Number: "05", Title: "A/S 보장", Description: "시공 후에도 안심하세요. 철저한 A/S 보장으로 끝까지 책임지겠습니다."},
			{Number: "06", Title: "깔끔한 마무리", Description: "시공 후 청소까지 완벽하게! 현장을 깔끔하게 정리하고 떠납니다."},
		},
		Business: Business{
			Name:           "제이코리아",
			Owner:          "이주영",
			RegistrationNo: "278-30-01540",
			Address:        "인천광역시 계양구 오조산로57번길 15, 7층 7106호",
		},
	}
}

// ServiceTitles lists the service names for the footer.
func (c Content) ServiceTitles() string {
	titles := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		titles = append(titles, s.Title)
	}
	return strings.Join(titles, " · ")
}
