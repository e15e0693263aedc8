package prompt

import (
	"strings"

	"ai-storefront/internal/entity"
)

const productHeader = "\n\nDưới đây là toàn bộ danh sách sản phẩm:\n"

// SystemBuilder assembles the system instruction of a sales dialogue.
type SystemBuilder struct {
	basePrompt   string
	products     []entity.ProductRecord
	descriptions []entity.ProductDescription
	visual       bool
}

func NewSystemBuilder(basePrompt string, products []entity.ProductRecord) *SystemBuilder {
	return &SystemBuilder{
		basePrompt: basePrompt,
		products:   products,
	}
}

// WithVisualMatching adds the image-matching instructions and the free-text
// description of every product folder.
func (b *SystemBuilder) WithVisualMatching(descriptions []entity.ProductDescription) *SystemBuilder {
	b.visual = true
	b.descriptions = descriptions
	return b
}

func (b *SystemBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString(b.basePrompt)
	b.writeProducts(&prompt)

	if b.visual {
		b.writeVisualInstructions(&prompt)
		b.writeDescriptions(&prompt)
	}

	return prompt.String()
}

func (b *SystemBuilder) writeProducts(prompt *strings.Builder) {
	if len(b.products) == 0 {
		return
	}

	sources := make([]string, 0, len(b.products))
	for _, p := range b.products {
		sources = append(sources, p.Source)
	}

	prompt.WriteString(productHeader)
	prompt.WriteString(strings.Join(sources, "\n"))
}

func (b *SystemBuilder) writeVisualInstructions(prompt *strings.Builder) {
	prompt.WriteString("\n\n<image_matching>\n")
	prompt.WriteString("Khi khách hàng gửi kèm một hình ảnh, hãy:\n")
	prompt.WriteString("1. Mô tả ngắn gọn sản phẩm nhìn thấy trong ảnh.\n")
	prompt.WriteString("2. So sánh với phần mô tả của từng sản phẩm bên dưới và chọn sản phẩm giống nhất.\n")
	prompt.WriteString("3. Nếu không có sản phẩm nào phù hợp, nói rõ là cửa hàng chưa có sản phẩm đó.\n")
	prompt.WriteString("Không bịa ra sản phẩm không có trong danh sách.\n")
	prompt.WriteString("</image_matching>")
}

func (b *SystemBuilder) writeDescriptions(prompt *strings.Builder) {
	if len(b.descriptions) == 0 {
		return
	}

	prompt.WriteString("\n\nMô tả chi tiết của từng sản phẩm:\n")
	for _, d := range b.descriptions {
		prompt.WriteString("\n<product name=\"")
		prompt.WriteString(d.Product)
		prompt.WriteString("\">\n")
		prompt.WriteString(d.Text)
		prompt.WriteString("\n</product>")
	}
}
