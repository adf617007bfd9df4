package schema

// Column names as they appear in the source CSV. The export uses the
// marketplace's Korean business vocabulary; downstream code refers to
// columns only through these constants.
const (
	ColOrderID      = "주문번호"
	ColOrderedAt    = "주문일"
	ColContact      = "주문자연락처"
	ColOrderer      = "주문자명"
	ColSeller       = "셀러명"
	ColProduct      = "상품명"
	ColQuantity     = "주문수량"
	ColUnitPrice    = "판매단가"
	ColSupplyPrice  = "공급단가"
	ColPaid         = "실결제 금액"
	ColPayment      = "결제금액"
	ColCancelAmount = "주문취소 금액"
	ColCancelFlag   = "취소여부"
	ColPurpose      = "목적"
	ColChannel      = "주문경로"
	ColRegion       = "광역지역"
	ColZipcode      = "우편번호"
	ColCitrusDetail = "감귤 세부"
	ColVariety      = "품종"
	ColFruitSize    = "과수 크기"
	ColWeightKg     = "무게(kg)"
)
